package controllers

import (
	"net/http"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

type settingsResponse struct {
	Settings types.StoreSettings `json:"settings"`
	Status   string              `json:"backendStatus"`
	Loading  bool                `json:"loading"`
}

// StorefrontSettings serves the merged settings the storefront renders from.
func StorefrontSettings(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, settingsResponse{
			Settings: st.Settings(),
			Status:   st.Status(),
			Loading:  st.Loading(),
		})
	}
}
