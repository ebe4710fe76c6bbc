package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

type contactRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Message         string `json:"message"`
	ServiceInterest string `json:"serviceInterest"`
}

func (h HandlerSet) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	contact, err := h.svc.Contacts.Submit(c.Request.Context(), service.ContactInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Message:         req.Message,
		ServiceInterest: req.ServiceInterest,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Thank you for contacting us. We will get back to you soon.", contact)
}

func (h HandlerSet) ListContacts(c *gin.Context) {
	page, err := h.svc.Contacts.List(c.Request.Context(), c.Query("status"), pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

func (h HandlerSet) ContactStats(c *gin.Context) {
	stats, err := h.svc.Contacts.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

type contactStatusRequest struct {
	Status     *models.ContactStatus `json:"status"`
	AdminNotes *string               `json:"adminNotes"`
	Response   *string               `json:"response"`
}

func (h HandlerSet) UpdateContactStatus(c *gin.Context) {
	var req contactStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	contact, err := h.svc.Contacts.UpdateStatus(c.Request.Context(), *middleware.CurrentAdmin(c), c.Param("id"), service.ContactStatusInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		Response:   req.Response,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Contact updated successfully", contact)
}
