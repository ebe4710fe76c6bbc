package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/service"
)

func (h HandlerSet) ListServices(c *gin.Context) {
	items, err := h.svc.Catalog.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(items))
}

func (h HandlerSet) ListAllServices(c *gin.Context) {
	items, err := h.svc.Catalog.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(items))
}

// GetService accepts an id or a slug.
func (h HandlerSet) GetService(c *gin.Context) {
	svc, err := h.svc.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", svc)
}

func (h HandlerSet) CreateService(c *gin.Context) {
	input, err := h.serviceInput(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	svc, err := h.svc.Catalog.Create(c.Request.Context(), *middleware.CurrentAdmin(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Service created successfully", svc)
}

func (h HandlerSet) UpdateService(c *gin.Context) {
	input, err := h.serviceInput(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	svc, err := h.svc.Catalog.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Service updated successfully", svc)
}

func (h HandlerSet) DeleteService(c *gin.Context) {
	if err := h.svc.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Service deleted successfully", nil)
}

func (h HandlerSet) serviceInput(c *gin.Context) (service.ServiceInput, error) {
	if isMultipart(c) {
		h.limitBody(c, 1)
	}
	fields, err := readFields(c)
	if err != nil {
		return service.ServiceInput{}, err
	}

	input := service.ServiceInput{
		Title:           field(fields, "title"),
		Slug:            field(fields, "slug"),
		Icon:            field(fields, "icon"),
		Description:     field(fields, "description"),
		FullDescription: field(fields, "fullDescription"),
		ProcessingTime:  field(fields, "processingTime"),
	}
	if docs := field(fields, "documents", "requiredDocuments"); docs != nil {
		input.Documents = splitList(*docs)
	}
	if raw := field(fields, "order"); raw != nil && strings.TrimSpace(*raw) != "" {
		order, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return service.ServiceInput{}, invalid("order", "must be a whole number")
		}
		input.Order = &order
	}

	image, err := h.formFile(c, "image")
	if err != nil {
		return service.ServiceInput{}, err
	}
	input.Image = image
	return input, nil
}
