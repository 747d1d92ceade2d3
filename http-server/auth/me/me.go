package me

import (
	"net/http"

	"github.com/go-chi/render"

	"production-tracker/internal/middleware/auth"
)

// Me reports the caller's resolved identity. It always answers 200 so the
// client can tell "signed out" from "still loading".
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, auth.StateFromContext(r.Context()))
	}
}
