package http

import (
	"net/http"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/folders"
)

type folderCreatePayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type folderUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (api *API) registerFolderRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "folders")
	mux.HandleFunc("GET "+root, api.requireAdmin(api.handleFolderList))
	mux.HandleFunc("POST "+root, api.requireAdmin(api.handleFolderCreate))
	mux.HandleFunc("GET "+root+"/{id}", api.requireAdmin(api.handleFolderGet))
	mux.HandleFunc("PATCH "+root+"/{id}", api.requireAdmin(api.handleFolderUpdate))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleFolderDelete))
	mux.HandleFunc("GET "+root+"/{id}/metadata", api.requireFolderAccess("id", api.handleFolderMetadata))
	mux.HandleFunc("GET "+root+"/{id}/media", api.requireFolderAccess("id", api.handleFolderMedia))
}

func (api *API) handleFolderList(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	records, err := api.folders.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) handleFolderCreate(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload folderCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	result, err := api.folders.Create(r.Context(), folders.CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	api.audit(r, accesslog.Entry{
		AdminID:  adminIDFromContext(r.Context()),
		FolderID: &result.Folder.ID,
		Action:   galaccess.ActionFolderCreate,
	})
	writeJSON(w, http.StatusCreated, result)
}

func (api *API) handleFolderGet(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	record, err := api.folders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleFolderUpdate(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	var payload folderUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	record, err := api.folders.Update(r.Context(), folders.UpdateInput{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleFolderDelete(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	if err := api.folders.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	api.audit(r, accesslog.Entry{
		AdminID:  adminIDFromContext(r.Context()),
		FolderID: &id,
		Action:   galaccess.ActionFolderDelete,
	})
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) handleFolderMetadata(w http.ResponseWriter, r *http.Request) {
	if api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	meta, err := api.folders.Metadata(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (api *API) handleFolderMedia(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	records, err := api.media.ListByFolder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
