package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the JSON envelope of every HTTP reply.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

func write(c *gin.Context, status int, body Resp) {
	c.JSON(status, body)
}

// OK sends 200 with data.
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Resp{ErrorCode: CodeOK, Message: MessageSuccess, Data: data})
}

// BadRequest sends 400 with the error text as the message.
func BadRequest(c *gin.Context, err error) {
	write(c, http.StatusBadRequest, Resp{ErrorCode: CodeBadRequest, Message: err.Error()})
}

func Unauthorized(c *gin.Context) {
	write(c, http.StatusUnauthorized, Resp{ErrorCode: CodeUnauthorized, Message: MessageUnauthorized})
}

// ServiceUnavailable sends 503 with the reason in Errors.
func ServiceUnavailable(c *gin.Context, err error) {
	write(c, http.StatusServiceUnavailable, Resp{
		ErrorCode: CodeUnavailable,
		Message:   MessageUnavailable,
		Errors:    err.Error(),
	})
}
