package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobibcgroup/safespace/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Wrapped AI errors must keep their distinct statuses; only genuinely
// unknown errors fall through to the generic 500.
func TestHandleServiceErrorAIMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"upstream failure", fmt.Errorf("%w: openai api error (429): rate limited", service.ErrUpstreamFailure), http.StatusBadGateway},
		{"upstream timeout", service.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{"parse failure", fmt.Errorf("%w: unexpected end of JSON input", service.ErrParseFailure), http.StatusBadGateway},
		{"not configured", service.ErrAINotConfigured, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("something else broke"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			handleServiceError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
