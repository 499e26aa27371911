package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/api/validators"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

func CartGet(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, st.Cart())
	}
}

// CartSummaryGet serves the derived totals the checkout bar renders from.
func CartSummaryGet(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, st.CartSummary())
	}
}

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func CartAddItem(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := st.AddToCart(r.Context(), body.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, st.Cart())
	}
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateItem sets an item's quantity. Quantities below one remove the
// item, matching the storefront's stepper behavior.
func CartUpdateItem(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		st.UpdateCartQuantity(r.Context(), chi.URLParam(r, "productId"), body.Quantity)
		responses.WriteSuccess(w, st.Cart())
	}
}

func CartRemoveItem(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		st.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, st.Cart())
	}
}

func CartClear(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		st.ClearCart(r.Context())
		responses.WriteSuccess(w, st.Cart())
	}
}
