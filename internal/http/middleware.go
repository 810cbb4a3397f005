package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/internal/logging"
)

type contextKey string

const (
	adminIDKey  contextKey = "gallery.http.admin_id"
	folderIDKey contextKey = "gallery.http.folder_id"
)

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAdmin verifies the bearer token as an admin token and stores the
// admin ID in the request context.
func (api *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.auth == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "bearer token required"})
			return
		}

		adminID, err := api.auth.VerifyAdminToken(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		ctx = logging.ContextWithFields(ctx, map[string]any{"admin_id": adminID.String()})
		next(w, r.WithContext(ctx))
	}
}

// requireFolderAccess accepts either an admin token or a folder token whose
// subject matches the folder in the request path.
func (api *API) requireFolderAccess(pathParam string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.auth == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
			return
		}

		folderID, err := parseUUID(r.PathValue(pathParam))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid folder id"})
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "bearer token required"})
			return
		}

		if adminID, err := api.auth.VerifyAdminToken(r.Context(), token); err == nil {
			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			ctx = context.WithValue(ctx, folderIDKey, folderID)
			next(w, r.WithContext(ctx))
			return
		}

		subject, err := api.auth.VerifyFolderToken(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		if subject != folderID {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Message: "token not valid for this folder"})
			return
		}

		ctx := context.WithValue(r.Context(), folderIDKey, folderID)
		ctx = logging.ContextWithFields(ctx, map[string]any{"folder_id": folderID.String()})
		next(w, r.WithContext(ctx))
	}
}

func adminIDFromContext(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(adminIDKey).(uuid.UUID); ok {
		return &id
	}
	return nil
}
