package controllers

import (
	"net/http"

	"github.com/detalhesstore/detalhes-backend/api/middleware"
	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/api/validators"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminPublic struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Admin adminPublic `json:"admin"`
}

func publicAdmin(admin models.AdminUser) adminPublic {
	return adminPublic{
		ID:        admin.ID,
		Username:  admin.Username,
		Role:      admin.Role,
		CreatedAt: admin.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// AuthLogin wires the admin login endpoint into the HTTP layer.
func AuthLogin(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, admin, err := st.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		responses.WriteSuccess(w, loginResponse{Token: token, Admin: publicAdmin(*admin)})
	}
}

// AuthLogout revokes the session tied to the bearer token that authenticated
// the request.
func AuthLogout(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		if err := st.Logout(r.Context(), middleware.TokenIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
