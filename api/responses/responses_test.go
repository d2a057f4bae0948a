package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if payload.Data["hello"] != "world" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestWriteErrorUsesTypedMetadata(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "typed not found keeps its message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found"),
			wantStatus: 404,
			wantCode:   "NOT_FOUND",
			wantMsg:    "cart item not found",
		},
		{
			name:       "typed validation keeps its message",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"),
			wantStatus: 400,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    "quantity must be at least 1",
		},
		{
			name:       "untyped error becomes opaque internal",
			err:        context.DeadlineExceeded,
			wantStatus: 500,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			var payload struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if payload.Error.Code != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, payload.Error.Code)
			}
			if payload.Error.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, payload.Error.Message)
			}
		})
	}
}

func TestWriteErrorIncludesAllowedDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"quantity": "must be at least 1"})
	WriteError(context.Background(), nil, rec, err)

	var payload struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if payload.Error.Details["quantity"] != "must be at least 1" {
		t.Fatalf("expected details to pass through, got %+v", payload.Error.Details)
	}
}
