package me

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/identity"
	"production-tracker/internal/middleware/auth"
	"production-tracker/internal/storage"
)

func TestMe(t *testing.T) {
	tests := []struct {
		name  string
		state identity.State
		want  string
	}{
		{
			"signed in with role",
			identity.State{Principal: &identity.Principal{UID: "u-1", Email: "ali@example.com"}, Role: storage.RoleSupervisor},
			`{"principal":{"uid":"u-1","email":"ali@example.com"},"role":"supervisor","loading":false}`,
		},
		{
			"signed in without profile",
			identity.State{Principal: &identity.Principal{UID: "u-2", Email: "x@example.com"}},
			`{"principal":{"uid":"u-2","email":"x@example.com"},"role":null,"loading":false}`,
		},
		{"loading", identity.State{Loading: true}, `{"principal":null,"role":null,"loading":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req = req.WithContext(auth.WithState(req.Context(), tt.state))
			rr := httptest.NewRecorder()

			Me().ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}
}
