package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

// WriteSuccess renders the standard success envelope with a 200 status.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus renders the standard success envelope with an explicit status.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError maps a domain error onto the error envelope. Client-fault codes
// keep the handler's message; everything else gets the code's public message
// so internals never leak.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		appErr = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(appErr.Code())
	message := meta.PublicMessage
	switch appErr.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if appErr.Message() != "" {
			message = appErr.Message()
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(appErr.Code()),
			Message: message,
		},
	}
	if meta.DetailsAllowed {
		payload.Error.Details = appErr.Details()
	}

	if logg != nil {
		fields := map[string]any{
			"error_code":  string(appErr.Code()),
			"http_status": meta.HTTPStatus,
			"retryable":   meta.Retryable,
		}
		logCtx := logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logCtx = logg.WithField(logCtx, "dump", pkgerrors.Dump(appErr))
			logg.Error(logCtx, "request failed", appErr)
		} else {
			logg.Warn(logg.WithField(logCtx, "error", appErr.Error()), "request rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`, http.StatusInternalServerError)
	}
}
