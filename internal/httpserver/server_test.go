package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskmaster-bot/pkg/log"
)

type fakeTelegramHandler struct {
	calls int
}

func (f *fakeTelegramHandler) HandleWebhook(c *gin.Context) {
	f.calls++
	c.Status(http.StatusOK)
}

func (f *fakeTelegramHandler) Poll(ctx context.Context, timeout time.Duration) error { return nil }

func newTestServer(t *testing.T, cfg Config) *HTTPServer {
	t.Helper()
	cfg.Mode = gin.TestMode
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	srv, err := New(log.NewNop(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func get(srv *HTTPServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		logger log.Logger
		cfg    Config
	}{
		{"missing logger", nil, Config{Mode: gin.TestMode, Port: 1}},
		{"missing mode", log.NewNop(), Config{Port: 1}},
		{"missing port", log.NewNop(), Config{Mode: gin.TestMode}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.logger, tt.cfg); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, Config{Environment: "development"})

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := get(srv, path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), ServiceName) {
			t.Errorf("GET %s body %s should name the service", path, w.Body.String())
		}
	}
}

func TestReadyCheck_Unavailable(t *testing.T) {
	srv := newTestServer(t, Config{Readiness: func(ctx context.Context) error {
		return errors.New("database is closed")
	}})

	w := get(srv, "/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /ready = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "database is closed") {
		t.Errorf("body should carry the reason, got %s", w.Body.String())
	}
	if get(srv, "/live").Code != http.StatusOK {
		t.Error("liveness must not depend on readiness")
	}
}

func TestTelegramRoute(t *testing.T) {
	h := &fakeTelegramHandler{}
	srv := newTestServer(t, Config{TelegramHandler: h})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, TelegramWebhookPath, strings.NewReader("{}")))
	if w.Code != http.StatusOK || h.calls != 1 {
		t.Errorf("webhook status = %d, calls = %d", w.Code, h.calls)
	}

	without := newTestServer(t, Config{})
	w = httptest.NewRecorder()
	without.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, TelegramWebhookPath, strings.NewReader("{}")))
	if w.Code != http.StatusNotFound {
		t.Errorf("webhook without handler = %d, want 404", w.Code)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	srv := newTestServer(t, Config{Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
