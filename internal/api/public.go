package api

import (
	"errors"
	"net/http"

	"github.com/timster/go-api/internal/auth"
	"github.com/timster/go-api/internal/httputil"
	"github.com/timster/go-api/internal/logging"
	"github.com/timster/go-api/internal/user"
	"github.com/timster/go-api/internal/validate"
)

// CreateUser handles open registration: POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limiter != nil {
		ip := clientIP(r)
		allowed, err := h.limiter.Allow(r.Context(), "register:"+ip, h.rate.RegisterLimit, h.rate.RegisterWindow)
		if err != nil {
			// Fail open: registration should not depend on Redis being up
			logger.Warn("rate limit check failed", "error", err.Error())
		} else if !allowed {
			logger.Warn("registration rate limit exceeded", "ip", ip)
			httputil.RespondHTTPError(w, http.StatusTooManyRequests)
			return
		}
	}

	values, err := decodeValues(r)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusBadRequest)
		return
	}

	obj := h.public.Create()
	validator := user.NewCreateValidator(h.store, obj)
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

	logger.Info("user registered", "user_id", obj.ID, "username", obj.Username)
	httputil.RespondObject(w, h.public.Serialize(obj))
}

// GetProfile returns the authenticated identity: GET /api/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondHTTPError(w, http.StatusUnauthorized)
		return
	}

	httputil.RespondObject(w, h.public.Serialize(identity))
}

// UpdateProfile mutates the authenticated identity: POST /api/profile.
// The submission must confirm the current password.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondHTTPError(w, http.StatusUnauthorized)
		return
	}

	values, err := decodeValues(r)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusBadRequest)
		return
	}

	validator := user.NewProfileValidator(h.store, identity)
	if !validator.Validate(r.Context(), values) {
		httputil.RespondErrors(w, validator.Errors())
		return
	}
	if err := validator.Save(r.Context()); err != nil {
		if errors.Is(err, validate.ErrInvalid) {
			httputil.RespondErrors(w, validator.Errors())
			return
		}
		logger.Error("failed to update profile", "error", err.Error(), "user_id", identity.ID)
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	httputil.RespondObject(w, h.public.Serialize(identity))
}

// DeleteProfile removes the authenticated identity: DELETE /api/profile.
// Only the current-password confirmation is validated before the delete.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondHTTPError(w, http.StatusUnauthorized)
		return
	}

	values, err := decodeValues(r)
	if err != nil {
		httputil.RespondHTTPError(w, http.StatusBadRequest)
		return
	}

	validator := user.NewProfileValidator(h.store, identity)
	if !validator.Validate(r.Context(), values, "current_password") {
		httputil.RespondErrors(w, validator.Errors())
		return
	}

	if err := h.public.Delete(r.Context(), identity); err != nil {
		logger.Error("failed to delete profile", "error", err.Error(), "user_id", identity.ID)
		httputil.RespondHTTPError(w, http.StatusInternalServerError)
		return
	}

	logger.Info("user deleted own account", "user_id", identity.ID)
	httputil.RespondObject(w, h.public.Serialize(identity))
}

// Health is a simple liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
