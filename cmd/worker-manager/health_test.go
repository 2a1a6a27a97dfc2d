package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthMux(t *testing.T) {
	ok := readinessCheck{name: "database", check: func(context.Context) error { return nil }}
	down := readinessCheck{name: "redis", check: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		path       string
		checks     []readinessCheck
		wantStatus int
		wantState  string
	}{
		{name: "liveness", path: "/health", wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "ready", path: "/ready", checks: []readinessCheck{ok}, wantStatus: http.StatusOK, wantState: "ready"},
		{name: "dependency down", path: "/ready", checks: []readinessCheck{ok, down}, wantStatus: http.StatusServiceUnavailable, wantState: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthMux(tt.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body["status"])
		})
	}
}

func TestHealthMux_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
