package public

import (
	"context"
	"errors"
	"net/http"

	"github.com/sngm3741/feedback-forms/api/internal/auth"
	"github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
)

// InvalidCredentialsMessage is shown for every failed sign-in.
const InvalidCredentialsMessage = "Invalid credentials. Check email and password."

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusUnauthorized, InvalidCredentialsMessage)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		session, err := h.auth.Login(ctx, req.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Infow("login rejected", "email", req.Email)
			common.WriteError(h.logger, w, http.StatusUnauthorized, InvalidCredentialsMessage)
			return
		}
		if err != nil {
			h.logger.Errorw("login failed", "email", req.Email, "error", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to sign in")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      userToResponse(session.User),
		})
	}
}

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to read authenticated user")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		user, err := h.auth.CurrentUser(ctx, principal.ID)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to load user", "user", principal.ID)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, userToResponse(*user))
	}
}

func (h *Handler) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to read authenticated user")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.auth.Logout(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
			h.logger.Errorw("logout failed", "user", principal.ID, "error", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to sign out")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
