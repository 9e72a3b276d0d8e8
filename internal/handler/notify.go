package handler

import (
	"github.com/gin-gonic/gin"

	"paygram/internal/handler/request"
	"paygram/internal/handler/response"
	"paygram/internal/notifier"
	"paygram/pkg/errno"
	"paygram/pkg/monitor"
	"paygram/pkg/validator"
)

type NotifyHandler struct {
	notify notifier.Notifier
}

func NewNotifyHandler(n notifier.Notifier) *NotifyHandler {
	return &NotifyHandler{notify: n}
}

// Send pushes one chat message directly, outside the event pipeline.
// @Summary Send notification
// @Description Direct push to a chat id. Most notifications flow through the event worker instead.
// @Tags Notify
// @Accept json
// @Produce json
// @Param request body request.NotifyRequest true "Notification"
// @Success 200 {object} response.Response
// @Router /api/v1/notify [post]
func (h *NotifyHandler) Send(c *gin.Context) {
	var req request.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithDetailf("%s", validator.GetErrorMsg(err)))
		return
	}

	if err := h.notify.Notify(c.Request.Context(), req.ChatID, req.Message); err != nil {
		monitor.Business.NotificationsSentTotal.WithLabelValues("failed").Inc()
		response.Error(c, errno.ErrExternalService.WithDetailf("notify chat %d: %v", req.ChatID, err))
		return
	}

	monitor.Business.NotificationsSentTotal.WithLabelValues("sent").Inc()
	response.Success(c, nil)
}
