package controllers

import (
	"net/http"
	"strings"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/api/validators"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

type eventRequest struct {
	Type      string `json:"type" validate:"required"`
	ProductID string `json:"product_id"`
}

// EventsCreate records a storefront interaction against the analytics
// counters.
func EventsCreate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body eventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := st.RecordEvent(r.Context(), body.Type, body.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "recorded"})
	}
}

const visitSessionHeader = "X-Session-Id"
const visitSessionCookie = "detalhes_session"

type visitResponse struct {
	Counted bool `json:"counted"`
}

// VisitsCreate counts a unique visitor session. The session id comes from the
// X-Session-Id header, falling back to the session cookie.
func VisitsCreate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		sessionID := strings.TrimSpace(r.Header.Get(visitSessionHeader))
		if sessionID == "" {
			if cookie, err := r.Cookie(visitSessionCookie); err == nil {
				sessionID = strings.TrimSpace(cookie.Value)
			}
		}
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}

		counted, err := st.RecordVisit(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, visitResponse{Counted: counted})
	}
}
