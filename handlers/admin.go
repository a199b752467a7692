package handlers

import (
	"net/http"

	"voicedesk/services/dialog"
	"voicedesk/services/session"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator surface: session inspection and the
// one explicit path that resets a conversation.
type AdminHandler struct {
	Engine *dialog.Engine
	Store  session.Store
}

func NewAdminHandler(engine *dialog.Engine, store session.Store) *AdminHandler {
	return &AdminHandler{Engine: engine, Store: store}
}

// GetSessionHandler returns the current session record for a call.
func (h *AdminHandler) GetSessionHandler(c *gin.Context) {
	callID := c.Param("callID")
	sess, err := h.Store.Get(c.Request.Context(), callID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ResetSessionHandler explicitly clears a call's session. Every use is
// attributed to the operator named in the request header.
func (h *AdminHandler) ResetSessionHandler(c *gin.Context) {
	callID := c.Param("callID")
	operator := c.GetHeader("X-Operator")
	if operator == "" {
		operator = "unknown"
	}
	if err := h.Engine.Reset(c.Request.Context(), callID, operator); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to reset session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset", "callId": callID})
}
