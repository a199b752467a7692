package handlers

import (
	"net/http"

	"voicedesk/models"
	"voicedesk/services/dialog"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler serves the per-turn webhook from the telephony channel.
type VoiceHandler struct {
	Engine *dialog.Engine
	Logger *zap.Logger
}

func NewVoiceHandler(engine *dialog.Engine, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{Engine: engine, Logger: logger}
}

// TurnHandler processes one utterance and returns the next prompt.
func (h *VoiceHandler) TurnHandler(c *gin.Context) {
	var req models.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid turn payload", err.Error())
		return
	}

	resp, err := h.Engine.HandleTurn(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("turn handling failed",
			zap.String("callId", req.CallID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "turn handling failed", "")
		return
	}

	c.JSON(http.StatusOK, resp)
}
