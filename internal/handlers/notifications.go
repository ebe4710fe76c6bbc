package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/service"
)

func (h HandlerSet) ActiveNotifications(c *gin.Context) {
	items, err := h.svc.Notifications.Active(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(items))
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	items, err := h.svc.Notifications.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(items))
}

func (h HandlerSet) CreateNotification(c *gin.Context) {
	var input service.NotificationInput
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, err)
		return
	}

	n, err := h.svc.Notifications.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Notification created successfully", n)
}

func (h HandlerSet) UpdateNotification(c *gin.Context) {
	var input service.NotificationInput
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, err)
		return
	}

	n, err := h.svc.Notifications.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification updated successfully", n)
}

func (h HandlerSet) DeleteNotification(c *gin.Context) {
	if err := h.svc.Notifications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification deleted successfully", nil)
}
