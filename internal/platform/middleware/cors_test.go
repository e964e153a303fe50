// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-cms/api/internal/platform/middleware"
)

// fakeAppConfig drives the CORS middleware without a full environment load.
type fakeAppConfig struct {
	development  bool
	extraOrigins []string
}

func (f *fakeAppConfig) IsDevelopment() bool      { return f.development }
func (f *fakeAppConfig) AllowedOrigins() []string { return f.extraOrigins }

func serveCORS(cfg *fakeAppConfig, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
	if origin != "" {
		request.Header.Set("Origin", origin)
	}
	recorder := httptest.NewRecorder()
	middleware.CORS(cfg)(next).ServeHTTP(recorder, request)
	return recorder
}

/*
TestCORS_OriginAllowlist verifies production origin filtering: the
first-party domain passes, configured extra origins pass, and everything
else gets no CORS headers.
*/
func TestCORS_OriginAllowlist(t *testing.T) {
	cfg := &fakeAppConfig{
		extraOrigins: []string{"https://studio.partner.example"},
	}

	// 1. First-party domain is always allowed
	recorder := serveCORS(cfg, "https://admin.inkwell.app")
	assert.Equal(t, "https://admin.inkwell.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	// 2. A configured extra origin is allowed
	recorder = serveCORS(cfg, "https://studio.partner.example")
	assert.Equal(t, "https://studio.partner.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	// 3. An unknown origin gets no CORS headers
	recorder = serveCORS(cfg, "https://evil.example")
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	// 4. Development mode is open
	recorder = serveCORS(&fakeAppConfig{development: true}, "https://anything.example")
	assert.Equal(t, "https://anything.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	// 5. No Origin header means no CORS handling at all
	recorder = serveCORS(cfg, "")
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
