package http

import (
	"net/http"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	galadmins "github.com/ohanalens/go-gallery/admins"
	galfolders "github.com/ohanalens/go-gallery/folders"
	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/admins"
)

type adminLoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminSignupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyPasswordPayload struct {
	FolderKey string `json:"folderKey"`
	Password  string `json:"password"`
}

type adminSessionResponse struct {
	Token string               `json:"token"`
	Admin *galadmins.AdminUser `json:"admin"`
}

type folderSessionResponse struct {
	Token  string             `json:"token"`
	Folder *galfolders.Folder `json:"folder"`
}

func (api *API) registerAuthRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "auth")
	mux.HandleFunc("POST "+root+"/admin-login", api.handleAdminLogin)
	mux.HandleFunc("POST "+root+"/admin-signup", api.handleAdminSignup)
	mux.HandleFunc("POST "+root+"/verify-password", api.handleVerifyPassword)
	mux.HandleFunc("GET "+root+"/admin-list", api.requireAdmin(api.handleAdminList))
	mux.HandleFunc("DELETE "+root+"/admin-delete/{id}", api.requireAdmin(api.handleAdminDelete))
}

func (api *API) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if api.admins == nil || api.auth == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload adminLoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	record, err := api.admins.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := api.auth.IssueAdminToken(record.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	api.audit(r, accesslog.Entry{AdminID: &record.ID, Action: galaccess.ActionAdminLogin})
	writeJSON(w, http.StatusOK, adminSessionResponse{Token: token, Admin: record})
}

func (api *API) handleAdminSignup(w http.ResponseWriter, r *http.Request) {
	if api.admins == nil || api.auth == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload adminSignupPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	record, err := api.admins.Signup(r.Context(), admins.SignupInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := api.auth.IssueAdminToken(record.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, adminSessionResponse{Token: token, Admin: record})
}

func (api *API) handleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil || api.auth == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload verifyPasswordPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	record, err := api.folders.VerifyPassword(r.Context(), payload.FolderKey, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := api.auth.IssueFolderToken(record.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	api.audit(r, accesslog.Entry{FolderID: &record.ID, Action: galaccess.ActionFolderAccess})
	writeJSON(w, http.StatusOK, folderSessionResponse{Token: token, Folder: record})
}

func (api *API) handleAdminList(w http.ResponseWriter, r *http.Request) {
	if api.admins == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	records, err := api.admins.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if api.admins == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	if err := api.admins.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// audit records an access log entry without failing the request on error.
func (api *API) audit(r *http.Request, entry accesslog.Entry) {
	if api.accessLogs == nil {
		return
	}
	entry.IPAddress = clientIP(r)
	entry.UserAgent = r.UserAgent()
	if _, err := api.accessLogs.Record(r.Context(), entry); err != nil {
		api.logger.Warn("audit record failed", "action", entry.Action, "error", err)
	}
}
