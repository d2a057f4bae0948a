package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/api/middleware"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
)

// currentUserID resolves the authenticated user id seeded by the auth
// middleware.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id in context")
	}
	return id, nil
}
