package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/timster/go-api/internal/httputil"
	"github.com/timster/go-api/internal/logging"
	"github.com/timster/go-api/internal/resource"
	"github.com/timster/go-api/internal/user"
	"github.com/timster/go-api/internal/validate"
)

// ListUsers returns every user with private fields: GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.private.All(r.Context())
	if err != nil {
		logger := logging.GetLoggerFromContext(r.Context())
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	httputil.RespondObjects(w, h.private.SerializeMany(users))
}

// AdminCreateUser creates a user through the admin surface: POST /admin/users.
// Unlike open registration, the admin path may set is_admin and the API key,
// and the password is optional.
func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	values, err := decodeValues(r)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusBadRequest)
		return
	}

	obj := h.private.Create()
	validator := user.NewAdminValidator(h.store, obj)
	if !validator.Validate(r.Context(), values) {
		httputil.RespondErrors(w, validator.Errors())
		return
	}
	if err := validator.Save(r.Context()); err != nil {
		if errors.Is(err, validate.ErrInvalid) {
			httputil.RespondErrors(w, validator.Errors())
			return
		}
		logger.Error("failed to create user", "error", err.Error())
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	logger.Info("admin created user", "user_id", obj.ID, "username", obj.Username)
	httputil.RespondObject(w, h.private.Serialize(obj))
}

// AdminGetUser returns one user by id: GET /admin/users/{id}.
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	obj, ok := h.fetchUser(w, r)
	if !ok {
		return
	}

	httputil.RespondObject(w, h.private.Serialize(obj))
}

// AdminUpdateUser mutates one user by id: POST /admin/users/{id}.
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	obj, ok := h.fetchUser(w, r)
	if !ok {
		return
	}

	values, err := decodeValues(r)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusBadRequest)
		return
	}

	validator := user.NewAdminValidator(h.store, obj)
	if !validator.Validate(r.Context(), values) {
		httputil.RespondErrors(w, validator.Errors())
		return
	}
	if err := validator.Save(r.Context()); err != nil {
		if errors.Is(err, validate.ErrInvalid) {
			httputil.RespondErrors(w, validator.Errors())
			return
		}
		logger.Error("failed to update user", "error", err.Error(), "user_id", obj.ID)
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	logger.Info("admin updated user", "user_id", obj.ID)
	httputil.RespondObject(w, h.private.Serialize(obj))
}

// AdminDeleteUser removes one user by id: DELETE /admin/users/{id}.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	obj, ok := h.fetchUser(w, r)
	if !ok {
		return
	}

	if err := h.private.Delete(r.Context(), obj); err != nil {
		logger.Error("failed to delete user", "error", err.Error(), "user_id", obj.ID)
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	logger.Info("admin deleted user", "user_id", obj.ID)
	httputil.RespondObject(w, h.private.Serialize(obj))
}

// fetchUser resolves the {id} route parameter to a user, writing the 404
// envelope when the id is malformed or no user has it.
func (h *Handler) fetchUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusNotFound)
		return nil, false
	}

	obj, err := h.private.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			httputil.RespondHTTPError(w, http.StatusNotFound)
			return nil, false
		}
		logger := logging.GetLoggerFromContext(r.Context())
		logger.Error("failed to fetch user", "error", err.Error())
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return nil, false
	}

	return obj, true
}
