package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/careercompass/backend/internal/api/dto"
	"github.com/careercompass/backend/internal/api/middleware"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/pkg/validator"
	"github.com/careercompass/backend/internal/services"
)

// ChatHandler handles advisor chat requests
type ChatHandler struct {
	chat      *services.ChatService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, log *logger.Logger, val *validator.Validator) *ChatHandler {
	return &ChatHandler{
		chat:      chat,
		logger:    log,
		validator: val,
	}
}

// Chat answers an advisor message, streamed as chunked plain text when
// the client asks for it.
// @Summary Advisor chat
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Message"
// @Success 200 {object} dto.ChatResponse "Reply"
// @Failure 400 {object} utils.ErrorResponse "Empty message"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if req.Stream {
		h.stream(w, r, principal.Email, req.Message, req.Context)
		return
	}

	reply, err := h.chat.Ask(r.Context(), principal.Email, req.Message, req.Context)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ChatResponse{Response: reply})
}

// stream writes reply chunks as they arrive. Errors after the first
// chunk can only be logged; the status line is already on the wire.
func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, email, message, userContext string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteError(w, errors.Internal("Streaming unsupported", nil))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	err := h.chat.Stream(r.Context(), email, message, userContext, func(chunk string) error {
		if _, werr := w.Write([]byte(chunk)); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		h.logger.ErrorWithErr(err, "Chat stream aborted")
	}
}
