package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/api/validators"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

type productPayload struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Images      []string        `json:"images" validate:"required,min=1"`
	Category    string          `json:"category" validate:"required"`
	Collection  string          `json:"collection"`
	Tags        []string        `json:"tags"`
	IsGift      bool            `json:"isGift"`
	Stock       int             `json:"stock" validate:"min=0"`
}

func (p productPayload) toModel(id string) models.Product {
	return models.Product{
		ID:          id,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Images:      pq.StringArray(p.Images),
		Category:    p.Category,
		Collection:  p.Collection,
		Tags:        pq.StringArray(p.Tags),
		IsGift:      p.IsGift,
		Stock:       p.Stock,
	}
}

func AdminProductCreate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body productPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := st.AddProduct(r.Context(), body.toModel(""))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminProductUpdate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body productPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := st.UpdateProduct(r.Context(), body.toModel(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminProductDelete(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		if err := st.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
