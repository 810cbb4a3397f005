package http

import (
	"io"
	"net/http"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/admission"
	"github.com/ohanalens/go-gallery/internal/limits"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// payloads spill to temp files.
const maxUploadMemory = 32 << 20

type limitsResponse struct {
	limits.MediaLimits
	PercentageRemaining float64 `json:"percentageRemaining"`
}

func (api *API) registerMediaRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "media")
	mux.HandleFunc("POST "+root+"/upload/{folderId}", api.requireAdmin(api.handleMediaUpload))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleMediaDelete))
	mux.HandleFunc("GET "+root+"/limits", api.handleMediaLimits)
}

func (api *API) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if api.flow == nil || api.folders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	folderID, err := parseUUID(r.PathValue("folderId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid folder id"})
		return
	}

	if _, err := api.folders.Get(r.Context(), folderID); err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid multipart payload"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "no files in batch"})
		return
	}

	files := make([]admission.CandidateFile, 0, len(parts))
	for _, part := range parts {
		file, err := part.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "unreadable file part"})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "unreadable file part"})
			return
		}

		files = append(files, admission.CandidateFile{
			Name:     part.Filename,
			MimeType: part.Header.Get("Content-Type"),
			Size:     part.Size,
			Data:     data,
		})
	}

	batch := api.flow.Process(r.Context(), folderID, files)

	if batch.BytesAdded > 0 {
		if err := api.folders.AddBytes(r.Context(), folderID, batch.BytesAdded); err != nil {
			api.logger.Warn("folder byte counter update failed", "folder_id", folderID, "error", err)
		}
	}
	if batch.Succeeded > 0 {
		api.audit(r, accesslog.Entry{
			AdminID:  adminIDFromContext(r.Context()),
			FolderID: &folderID,
			Action:   galaccess.ActionMediaUpload,
		})
	}

	writeJSON(w, http.StatusCreated, batch)
}

func (api *API) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	record, err := api.media.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := api.media.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	api.audit(r, accesslog.Entry{
		AdminID:  adminIDFromContext(r.Context()),
		FolderID: &record.FolderID,
		Action:   galaccess.ActionMediaDelete,
	})
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) handleMediaLimits(w http.ResponseWriter, r *http.Request) {
	if api.limits == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	current := api.limits.Current(r.Context())

	remaining := 0.0
	if current.RateLimitAllowed > 0 {
		remaining = float64(current.RateLimitRemaining) / float64(current.RateLimitAllowed) * 100
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, limitsResponse{
		MediaLimits:         current,
		PercentageRemaining: remaining,
	})
}
