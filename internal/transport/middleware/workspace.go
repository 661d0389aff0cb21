package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/workspace-management/internal"
	"github.com/frahmantamala/workspace-management/internal/authz"
)

// WorkspaceSession builds the per-request workspace session from the {workspaceID}
// path parameter and the authenticated principal. Requests from anonymous callers
// get Unauthorized, non-members get Permission denied; neither reaches a handler, so
// no workspace-scoped data is touched on a denied request.
func WorkspaceSession(store authz.MembershipStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspaceID, err := strconv.ParseInt(chi.URLParam(r, "workspaceID"), 10, 64)
			if err != nil || workspaceID <= 0 {
				writeError(w, http.StatusBadRequest, "invalid workspace id")
				return
			}

			principalID := internal.UserIDFromContext(r.Context())
			session, err := authz.BuildSession(r.Context(), store, principalID, workspaceID)
			if err != nil {
				switch {
				case errors.Is(err, authz.ErrNotAMember):
					logger.WarnContext(r.Context(), "workspace access denied",
						"user_id", principalID,
						"workspace_id", workspaceID)
					writeError(w, http.StatusForbidden, "Permission denied")
				default:
					if appErr, ok := internal.IsAppError(err); ok {
						if appErr.StatusCode >= http.StatusInternalServerError {
							logger.ErrorContext(r.Context(), "failed to build workspace session",
								"error", appErr.Error(),
								"workspace_id", workspaceID)
						}
						writeError(w, appErr.StatusCode, appErr.Message)
						return
					}
					logger.ErrorContext(r.Context(), "failed to build workspace session",
						"error", err,
						"workspace_id", workspaceID)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			ctx := authz.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
