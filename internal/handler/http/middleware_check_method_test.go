// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// buildSyncRouter registers the sync surface's method/path pairs directly,
// skipping Handler.Init() so no service or logger setup is needed.
func buildSyncRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Post("/sync/push", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"acks":[]}`))
	})
	router.Get("/sync/pull", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/sync/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func TestCheckHTTPMethod_TableTest(t *testing.T) {
	router := buildSyncRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		// Registered method on a registered route passes through.
		{
			name:       "POST /sync/push passes through",
			method:     http.MethodPost,
			path:       "/sync/push",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /sync/pull passes through",
			method:     http.MethodGet,
			path:       "/sync/pull",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /sync/status passes through",
			method:     http.MethodGet,
			path:       "/sync/status",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /auth/refresh passes through",
			method:     http.MethodPost,
			path:       "/auth/refresh",
			wantStatus: http.StatusOK,
		},
		// Wrong method on a registered route hides the route with 404.
		{
			name:       "GET /sync/push → 404",
			method:     http.MethodGet,
			path:       "/sync/push",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "POST /sync/pull → 404",
			method:     http.MethodPost,
			path:       "/sync/pull",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "DELETE /sync/status → 404",
			method:     http.MethodDelete,
			path:       "/sync/status",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "GET /auth/refresh → 404",
			method:     http.MethodGet,
			path:       "/auth/refresh",
			wantStatus: http.StatusNotFound,
		},
		// Unknown path: chi answers 404 before MethodNotAllowed fires.
		{
			name:       "GET /sync/unknown route does not exist",
			method:     http.MethodGet,
			path:       "/sync/unknown",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestCheckHTTPMethod_PassThroughBody(t *testing.T) {
	router := buildSyncRouter()

	req := httptest.NewRequest(http.MethodPost, "/sync/push", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"acks":[]}`, rr.Body.String())
}

func TestCheckHTTPMethod_WrongMethodNever405(t *testing.T) {
	router := buildSyncRouter()

	for _, method := range []string{
		http.MethodGet,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodHead,
	} {
		t.Run(method+" /sync/push", func(t *testing.T) {
			req := httptest.NewRequest(method, "/sync/push", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusNotFound, rr.Code,
				"wrong method on existing route should return 404, not 405")
		})
	}
}

func TestCheckHTTPMethod_MultiMethodRoute(t *testing.T) {
	// One path serving several methods, as /sync/push and /sync/pull would
	// if mounted on a shared prefix.
	router := chi.NewRouter()
	router.Get("/records", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Post("/records", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	router.Delete("/records", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	router.MethodNotAllowed(CheckHTTPMethod(router))

	registered := map[string]int{
		http.MethodGet:    http.StatusOK,
		http.MethodPost:   http.StatusCreated,
		http.MethodDelete: http.StatusNoContent,
	}
	for method, wantStatus := range registered {
		t.Run("registered: "+method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/records", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, wantStatus, rr.Code)
		})
	}

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodOptions} {
		t.Run("unregistered: "+method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/records", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestCheckHTTPMethod_ConcurrentRequests(t *testing.T) {
	router := buildSyncRouter()
	const n = 50
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		go func(i int) {
			method, path := http.MethodPost, "/sync/push"
			if i%2 == 1 {
				method, path = http.MethodDelete, "/sync/push"
			}
			req := httptest.NewRequest(method, path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			done <- rr.Code
		}(i)
	}

	for i := 0; i < n; i++ {
		code := <-done
		assert.True(t, code == http.StatusOK || code == http.StatusNotFound,
			"unexpected status code: %d", code)
	}
}
