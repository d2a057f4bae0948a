package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/api/responses"
	"github.com/adityakhanna/trendora-backend/api/validators"
	productsvc "github.com/adityakhanna/trendora-backend/internal/products"
	"github.com/adityakhanna/trendora-backend/pkg/enums"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
	"github.com/adityakhanna/trendora-backend/pkg/pagination"
)

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description *string  `json:"description"`
	PriceCents  int      `json:"price_cents" validate:"required,min=1"`
	Images      []string `json:"images" validate:"dive,url"`
	Sizes       []string `json:"sizes" validate:"dive,min=1,max=16"`
	Status      string   `json:"status" validate:"omitempty,oneof=active draft archived"`
}

type updateProductRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description"`
	PriceCents  *int      `json:"price_cents" validate:"omitempty,min=1"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Sizes       *[]string `json:"sizes" validate:"omitempty,dive,min=1,max=16"`
	Status      *string   `json:"status" validate:"omitempty,oneof=active draft archived"`
}

// AdminProductCreate adds a catalog entry; new products default to draft.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.ProductStatusDraft
		if payload.Status != "" {
			parsed, err := enums.ParseProductStatus(payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = parsed
		}

		product, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Images:      payload.Images,
			Sizes:       payload.Sizes,
			Status:      status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate applies a partial catalog edit.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Images:      payload.Images,
			Sizes:       payload.Sizes,
		}
		if payload.Status != nil {
			parsed, err := enums.ParseProductStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &parsed
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductArchive retires a product without deleting it; placed orders
// keep their snapshots either way.
func AdminProductArchive(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.ArchiveProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminProductList lists the catalog across every status.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListProductsInput{
			Search:          strings.TrimSpace(r.URL.Query().Get("search")),
			IncludeInactive: true,
			Limit:           limit,
			Cursor:          r.URL.Query().Get("cursor"),
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminProductDetail returns one product regardless of status.
func AdminProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
