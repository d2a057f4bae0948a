package controllers

import (
	"context"
	"net/http"

	"github.com/adityakhanna/trendora-backend/api/responses"
	"github.com/adityakhanna/trendora-backend/api/validators"
	"github.com/adityakhanna/trendora-backend/internal/users"
	"github.com/adityakhanna/trendora-backend/pkg/db/models"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
	"github.com/adityakhanna/trendora-backend/pkg/pagination"
)

type userLister interface {
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error)
}

type userListResponse struct {
	Users      []users.UserDTO `json:"users"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// AdminUserList pages through registered accounts, newest first.
func AdminUserList(repo userLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor"))
			return
		}

		rows, err := repo.List(r.Context(), cursor, pagination.LimitWithBuffer(limit))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users"))
			return
		}

		normalized := pagination.NormalizeLimit(limit)
		result := userListResponse{Users: make([]users.UserDTO, 0, len(rows))}
		for i := range rows {
			if i == normalized {
				last := &rows[i-1]
				result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
					CreatedAt: last.CreatedAt,
					ID:        last.ID,
				})
				break
			}
			result.Users = append(result.Users, *users.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, result)
	}
}
