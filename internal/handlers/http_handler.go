package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"propertyagent/internal/models"
	"propertyagent/internal/services"
	"propertyagent/internal/utils"
	"propertyagent/internal/wsnotify"

	"github.com/gorilla/mux"
)

// DispatchLister reads the dispatch journal.
type DispatchLister interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.DispatchRecord, error)
}

type HTTPHandler struct {
	sessions   *services.SessionManager
	dispatches DispatchLister
	ws         *wsnotify.WebSocketManager
	storage    string
}

func NewHTTPHandler(sessions *services.SessionManager, dispatches DispatchLister, ws *wsnotify.WebSocketManager, storage string) *HTTPHandler {
	return &HTTPHandler{
		sessions:   sessions,
		dispatches: dispatches,
		ws:         ws,
		storage:    storage,
	}
}

// RegisterRoutes mounts the API on a /api/v1 subrouter.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/status", h.GetStatus).Methods("GET", "OPTIONS")

	router.HandleFunc("/sessions", h.CreateSession).Methods("POST", "OPTIONS")
	router.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET", "OPTIONS")
	router.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/sessions/{id}/attachments", h.UploadAttachments).Methods("POST", "OPTIONS")
	router.HandleFunc("/sessions/{id}/attachments/{index:[0-9]+}", h.RemoveAttachment).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/sessions/{id}/matches", h.FindMatches).Methods("POST", "OPTIONS")
	router.HandleFunc("/sessions/{id}/matches/{index:[0-9]+}/message", h.EditMessage).Methods("PUT", "OPTIONS")
	router.HandleFunc("/sessions/{id}/matches/{index:[0-9]+}/dispatch", h.DispatchMatch).Methods("POST", "OPTIONS")
	router.HandleFunc("/sessions/{id}/matches/{index:[0-9]+}/whatsapp", h.OpenWhatsApp).Methods("GET", "OPTIONS")
	router.HandleFunc("/sessions/{id}/clear", h.ClearAll).Methods("POST", "OPTIONS")
	router.HandleFunc("/sessions/{id}/analytics", h.GetAnalytics).Methods("GET", "OPTIONS")
	router.HandleFunc("/sessions/{id}/notification", h.GetNotification).Methods("GET", "OPTIONS")
	router.HandleFunc("/sessions/{id}/dispatches", h.ListDispatches).Methods("GET", "OPTIONS")
	router.HandleFunc("/sessions/{id}/ws", h.SessionWebSocket)
}

func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	session, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	return session, true
}

func pathIndex(r *http.Request) int {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return -1
	}
	return index
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.LogWarning("Invalid request body on %s: %v", r.URL.Path, err)
		models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, services.ErrMatchInFlight):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrTransport), errors.Is(err, services.ErrResponseShape):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		utils.LogError("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		utils.LogInfo("%s %s: %v", r.Method, r.URL.Path, err)
	}
	if status == http.StatusConflict {
		models.RespondWithJSON(w, status, models.NewBusyResponse(err.Error()))
		return
	}
	models.RespondWithJSON(w, status, models.NewErrorResponse(err.Error()))
}
