package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

// AdminSettingsUpdate replaces the whole settings blob. Unknown fields are
// tolerated here: the back office posts the full settings object and older
// clients may carry keys this build no longer knows.
func AdminSettingsUpdate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body types.StoreSettings
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "request body is required"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		st.SetSettings(r.Context(), body)
		responses.WriteSuccess(w, st.Settings())
	}
}
