package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/internal/accesslog"
)

func (api *API) registerAccessLogRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "access-logs")
	mux.HandleFunc("GET "+root, api.requireAdmin(api.handleAccessLogList))
}

func (api *API) handleAccessLogList(w http.ResponseWriter, r *http.Request) {
	if api.accessLogs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	query := r.URL.Query()
	filter := accesslog.Filter{}

	if action := strings.TrimSpace(query.Get("action")); action != "" {
		filter.Action = galaccess.Action(action)
	}
	if raw := strings.TrimSpace(query.Get("folder_id")); raw != "" {
		folderID, err := parseUUID(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid folder_id"})
			return
		}
		filter.FolderID = &folderID
	}
	if raw := strings.TrimSpace(query.Get("admin_id")); raw != "" {
		adminID, err := parseUUID(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid admin_id"})
			return
		}
		filter.AdminID = &adminID
	}
	if raw := strings.TrimSpace(query.Get("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid since timestamp"})
			return
		}
		filter.Since = since
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	records, err := api.accessLogs.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
