package response

// Error codes carried in Resp.ErrorCode. Zero is success.
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeUnavailable  = 503
)

const (
	MessageSuccess      = "Success"
	MessageUnauthorized = "Unauthorized"
	MessageUnavailable  = "Service Unavailable"
)
