package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/mrpcapacity/pkg/httpx"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/pkg/validator"
)

type startSessionRequest struct {
	OperatorID string `json:"operator_id" validate:"required,max=128"`
}

type sessionResponse struct {
	OperatorID string `json:"operator_id"`
}

// SessionRoutes mounts POST / (start) and DELETE / (end) for operator
// sessions. Identity is asserted by the caller; the API sits behind the
// plant's SSO proxy, which strips any request it has not authenticated.
func SessionRoutes(r chi.Router, store sessions.Store, log logger.Logger) {
	r.Post("/", startSession(store, log))
	r.Delete("/", endSession(store, log))
}

// startSession godoc
//
//	@Summary	Start an operator session
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		startSessionRequest	true	"operator"
//	@Success	201		{object}	sessionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	422		{object}	map[string]any
//	@Router		/auth/session [post]
func startSession(store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := validator.ValidateRequest[startSessionRequest](w, r)
		if !ok {
			return
		}
		operatorID := strings.TrimSpace(req.OperatorID)
		if operatorID == "" {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "operator_id must not be blank")
			return
		}

		if err := StartOperatorSession(w, r, store, operatorID); err != nil {
			log.ErrorContext(r.Context(), "failed to start session", "error", err)
			httpx.JSONError(w, http.StatusInternalServerError, "failed to start session")
			return
		}
		log.InfoContext(r.Context(), "operator session started", "operator_id", operatorID)
		httpx.JSON(w, http.StatusCreated, sessionResponse{OperatorID: operatorID})
	}
}

// endSession godoc
//
//	@Summary	End the current operator session
//	@Tags		auth
//	@Success	204
//	@Router		/auth/session [delete]
func endSession(store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := EndOperatorSession(w, r, store); err != nil {
			log.WarnContext(r.Context(), "failed to end session", "error", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
