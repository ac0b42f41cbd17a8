package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	mw := RequestLogger(zerolog.New(&buf))

	r := gin.New()
	r.Use(mw)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fail"})
	})
	r.GET("/bad-request", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantLevel string
	}{
		{"successful request", "/test?q=hello", http.StatusOK, `"level":"info"`},
		{"server error request", "/error", http.StatusInternalServerError, `"level":"error"`},
		{"client error request", "/bad-request", http.StatusBadRequest, `"level":"warn"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.path, nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("expected %s in log, got %s", tt.wantLevel, out)
			}
			if !strings.Contains(out, `"component":"http"`) {
				t.Errorf("expected component field in log, got %s", out)
			}
		})
	}
}

func TestRequestLogger_RedactsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/api/v1/forecast", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast?months=12&credential=saam-api-deadbeef", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "deadbeef") {
		t.Errorf("credential leaked into log: %s", out)
	}
	if !strings.Contains(out, "months=12") {
		t.Errorf("expected non-sensitive params to be kept, got %s", out)
	}
	if !strings.Contains(out, `"route":"/api/v1/forecast"`) {
		t.Errorf("expected route in log, got %s", out)
	}
}

func TestRedactQueryString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"nothing sensitive", "months=12&growth=0.15", "months=12&growth=0.15"},
		{"credential", "credential=abc&months=3", "credential=%5BREDACTED%5D&months=3"},
		{"case insensitive", "API_KEY=abc", "API_KEY=%5BREDACTED%5D"},
		{"unparseable", "a=%zz", "[UNPARSEABLE]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactQueryString(tt.in); got != tt.want {
				t.Errorf("redactQueryString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
