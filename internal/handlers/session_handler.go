package handlers

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"

	"github.com/gorilla/mux"
)

const (
	multipartMemory = 32 << 20
	maxBatchFiles   = 10
)

// @Summary Create a session
// @Description Start a compose session for the configured agent
// @Tags sessions
// @Produce json
// @Success 201 {object} models.APIResponse
// @Router /sessions [post]
func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	models.RespondWithJSON(w, http.StatusCreated, models.NewSuccessResponse("Session created", session.Snapshot()))
}

// @Summary Get a session
// @Description Attachments, matches, processing flag and notification of a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id} [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Session loaded", session.Snapshot()))
}

// @Summary End a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id} [delete]
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.sessions.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	h.ws.CloseSession(id)
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Session closed", nil))
}

// @Summary Upload attachments
// @Description Validate and upload one or more files, in order, to tracked storage
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param files formData file true "Files to upload"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /sessions/{id}/attachments [post]
func (h *HTTPHandler) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	maxBytes := h.sessions.Dependencies().Gate.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchFiles*maxBytes+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.LogError("Invalid upload on %s: %v", r.URL.Path, err)
		models.RespondWithJSON(w, http.StatusBadRequest,
			models.NewErrorResponse(fmt.Sprintf("Could not read upload: %v", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("No files in request"))
		return
	}

	files := make([]models.FileUpload, 0, len(headers))
	for _, header := range headers {
		file, err := readFileUpload(header, maxBytes)
		if err != nil {
			utils.LogError("Error reading %s: %v", header.Filename, err)
			models.RespondWithJSON(w, http.StatusBadRequest,
				models.NewErrorResponse(fmt.Sprintf("Error reading file %s", header.Filename)))
			return
		}
		files = append(files, file)
	}

	outcomes := session.Upload(r.Context(), files)

	uploaded := 0
	for _, o := range outcomes {
		if o.Uploaded {
			uploaded++
		}
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse(
		fmt.Sprintf("%d of %d files uploaded", uploaded, len(outcomes)), outcomes))
}

// readFileUpload loads the file body only when it can pass the size check;
// oversized files keep their size so the gate can reject them.
func readFileUpload(header *multipart.FileHeader, maxBytes int64) (models.FileUpload, error) {
	upload := models.FileUpload{
		Name:     filepath.Base(header.Filename),
		MimeType: detectMimeType(header),
		Size:     header.Size,
	}
	if header.Size > maxBytes {
		return upload, nil
	}

	f, err := header.Open()
	if err != nil {
		return upload, err
	}
	defer f.Close()

	upload.Data, err = io.ReadAll(f)
	return upload, err
}

func detectMimeType(header *multipart.FileHeader) string {
	contentType := utils.BaseMimeType(header.Header.Get("Content-Type"))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if byExt := utils.BaseMimeType(mime.TypeByExtension(filepath.Ext(header.Filename))); byExt != "" {
		return byExt
	}
	return contentType
}

// @Summary Remove an attachment
// @Tags attachments
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Attachment index"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id}/attachments/{index} [delete]
func (h *HTTPHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.RemoveAttachment(pathIndex(r)); err != nil {
		respondError(w, r, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("File removed", session.Attachments()))
}

// @Summary Clear all content
// @Description Drop every attachment and match of the session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Router /sessions/{id}/clear [post]
func (h *HTTPHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.ClearAll()
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("All content cleared", session.Snapshot()))
}

// @Summary Storage analytics
// @Description Tracking analytics from the storage worker, passed through as-is
// @Tags attachments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /sessions/{id}/analytics [get]
func (h *HTTPHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	data, err := session.Analytics(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Analytics loaded successfully", data))
}

// @Summary Current notification
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Router /sessions/{id}/notification [get]
func (h *HTTPHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", session.Notification()))
}
