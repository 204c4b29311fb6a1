package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/ghuser/mrpcapacity/pkg/httpx"
	"github.com/ghuser/mrpcapacity/pkg/logger"
)

const (
	// SessionName is the cookie name of the operator session.
	SessionName = "mrpcapacity_session"
	// SessionOperatorKey is the session value holding the operator id.
	SessionOperatorKey = "operator_id"

	maxOperatorIDLength = 128
)

// RequireAuth rejects requests without a session naming an operator, and
// injects the operator id into the request context otherwise.
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			operatorID, ok := session.Values[SessionOperatorKey].(string)
			operatorID = strings.TrimSpace(operatorID)
			if !ok || operatorID == "" {
				log.WarnContext(r.Context(), "session missing operator_id")
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if len(operatorID) > maxOperatorIDLength {
				log.WarnContext(r.Context(), "operator_id in session too long", "length", len(operatorID))
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOperatorID(r.Context(), operatorID)))
		})
	}
}
