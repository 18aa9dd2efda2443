package handlers

import (
	"net/http"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
)

// @Summary Find matching leads
// @Description Send the message and tracked attachments to the matching workflow and return ranked leads
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.FindMatchesRequest true "Message content"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /sessions/{id}/matches [post]
func (h *HTTPHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.FindMatchesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := session.FindMatches(r.Context(), req.MessageContent)
	if err != nil {
		respondError(w, r, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse(result.Summary, result))
}

// @Summary Edit a personalized message
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Match index"
// @Param request body models.EditMessageRequest true "New message"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id}/matches/{index}/message [put]
func (h *HTTPHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.EditMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := session.EditMessage(pathIndex(r), req.Message)
	if err != nil {
		respondError(w, r, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Message updated", view))
}

// @Summary Dispatch a match over WhatsApp
// @Description Build the wa.me link and QR code for a match and record the dispatch
// @Tags whatsapp
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Match index"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id}/matches/{index}/dispatch [post]
func (h *HTTPHandler) DispatchMatch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := session.Dispatch(r.Context(), pathIndex(r), true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("WhatsApp link ready", result))
}

// @Summary Open WhatsApp for a match
// @Description Redirects to the wa.me deep link for a match
// @Tags whatsapp
// @Param id path string true "Session ID"
// @Param index path int true "Match index"
// @Success 302
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id}/matches/{index}/whatsapp [get]
func (h *HTTPHandler) OpenWhatsApp(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := session.Dispatch(r.Context(), pathIndex(r), false)
	if err != nil {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, result.WhatsAppURL, http.StatusFound)
}

// @Summary List dispatches
// @Description Journal of WhatsApp dispatches made in this session
// @Tags whatsapp
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Router /sessions/{id}/dispatches [get]
func (h *HTTPHandler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	records, err := h.dispatches.ListBySession(r.Context(), session.ID)
	if err != nil {
		utils.LogError("Error listing dispatches for %s: %v", session.ID, err)
		models.RespondWithJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Could not load dispatches"))
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", records))
}

// @Summary Workflow status
// @Description Sends a health_check action to the matching workflow
// @Tags status
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /status [get]
func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	deps := h.sessions.Dependencies()
	status := models.StatusResponse{
		Workflow: "online",
		Storage:  h.storage,
		AgentID:  deps.AgentID,
	}

	message := "System online"
	if err := deps.Matcher.HealthCheck(r.Context()); err != nil {
		utils.LogWarning("Health check failed: %v", err)
		status.Workflow = "degraded"
		message = "Workflow unreachable: " + err.Error()
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse(message, status))
}
