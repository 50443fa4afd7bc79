package notification

import (
	"log/slog"
	"net/http"

	"courier/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates a new notification handler.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Send handles POST /api/v1/notifications/send
func (h *Handler) Send(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	respond(c, h.dispatcher.SendNotification(c.Request.Context(), &req))
}

// SendEmail handles POST /api/v1/notifications/email
func (h *Handler) SendEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	respond(c, h.dispatcher.SendEmail(c.Request.Context(), req.TemplateName, req.Parameters, req.ToEmails))
}

// SendSMS handles POST /api/v1/notifications/sms
func (h *Handler) SendSMS(c *gin.Context) {
	var req SMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	respond(c, h.dispatcher.SendSMS(c.Request.Context(), req.TemplateName, req.Parameters, req.ToPhoneNumbers))
}

// ListTemplates handles GET /api/v1/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	templates := h.dispatcher.Templates()
	common.Success(c, http.StatusOK, gin.H{
		"email": templates.Names(ChannelEmail),
		"sms":   templates.Names(ChannelSMS),
	})
}

// GetTemplate handles GET /api/v1/templates/:channel/:name
func (h *Handler) GetTemplate(c *gin.Context) {
	channel, ok := ParseChannel(c.Param("channel"))
	if !ok {
		common.HandleError(c, common.NewValidationError("unknown channel: "+c.Param("channel")))
		return
	}

	body, err := h.dispatcher.Templates().Lookup(channel, c.Param("name"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{
		"channel": channel,
		"name":    c.Param("name"),
		"body":    body,
	})
}

// RegisterRoutes registers notification routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications/send", h.Send)
	rg.POST("/notifications/email", h.SendEmail)
	rg.POST("/notifications/sms", h.SendSMS)
	rg.GET("/templates", h.ListTemplates)
	rg.GET("/templates/:channel/:name", h.GetTemplate)
}

// respond writes 200 for a successful response and 400 otherwise.
func respond(c *gin.Context, resp *Response) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}

func invalidBody(c *gin.Context, err error) {
	slog.Warn("invalid notification request", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, NewFailure("Invalid request", "invalid request body: "+err.Error()))
}
