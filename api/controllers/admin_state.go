package controllers

import (
	"net/http"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

func AdminAnalytics(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, st.Analytics())
	}
}

// AdminNotifications serves the transient toast queue. Entries expire on
// their own a few seconds after being raised.
func AdminNotifications(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, st.Notifications())
	}
}

type statusResponse struct {
	Status  string `json:"backendStatus"`
	Loading bool   `json:"loading"`
}

func AdminStatus(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, statusResponse{Status: st.Status(), Loading: st.Loading()})
	}
}
