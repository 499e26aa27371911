package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/detalhesstore/detalhes-backend/api/middleware"
	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/api/validators"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
)

func AdminUserList(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		admins := st.AdminUsers()
		out := make([]adminPublic, 0, len(admins))
		for _, admin := range admins {
			out = append(out, publicAdmin(admin))
		}
		responses.WriteSuccess(w, out)
	}
}

type createAdminRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"omitempty,oneof=superadmin editor"`
}

func AdminUserCreate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body createAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := body.Role
		if role == "" {
			role = models.RoleEditor
		}

		created, err := st.CreateAdminUser(r.Context(), body.Username, body.Password, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, publicAdmin(created))
	}
}

type updateAdminRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"omitempty,min=4"`
}

// AdminUserUpdate renames an admin and optionally rotates the password. An
// empty password keeps the stored digest.
func AdminUserUpdate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		var body updateAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := st.UpdateAdminUser(r.Context(), chi.URLParam(r, "userId"), body.Username, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, publicAdmin(updated))
	}
}

func AdminUserDelete(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}

		if err := st.DeleteAdminUser(r.Context(), chi.URLParam(r, "userId"), middleware.AdminIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
