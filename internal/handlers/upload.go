package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

func (h HandlerSet) SubmitUpload(c *gin.Context) {
	if !isMultipart(c) {
		h.fail(c, models.ErrEmptyPayload)
		return
	}
	h.limitBody(c, h.cfg.HTTP.MaxFiles)

	form, err := c.MultipartForm()
	if err != nil {
		h.fail(c, invalid("files", "request is too large or malformed"))
		return
	}

	parts := form.File["files"]
	files := make([]service.File, 0, len(parts))
	for _, fh := range parts {
		f, err := h.readPart(fh)
		if err != nil {
			h.fail(c, err)
			return
		}
		files = append(files, f)
	}

	upload, err := h.svc.Uploads.Submit(c.Request.Context(), service.UploadInput{
		ServiceID: c.PostForm("serviceId"),
		UserID:    c.PostForm("userId"),
		Files:     files,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Documents uploaded successfully", upload)
}

func (h HandlerSet) ListUploads(c *gin.Context) {
	page, err := h.svc.Uploads.ListAll(c.Request.Context(), c.Query("status"), pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

func (h HandlerSet) ListServiceUploads(c *gin.Context) {
	page, err := h.svc.Uploads.ListByService(c.Request.Context(), c.Param("serviceId"), c.Query("status"), pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

func (h HandlerSet) UploadStats(c *gin.Context) {
	stats, err := h.svc.Uploads.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

type uploadStatusRequest struct {
	Status     models.UploadStatus `json:"status"`
	AdminNotes *string             `json:"adminNotes"`
}

func (h HandlerSet) UpdateUploadStatus(c *gin.Context) {
	var req uploadStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	upload, err := h.svc.Uploads.UpdateStatus(c.Request.Context(), *middleware.CurrentAdmin(c), c.Param("id"), service.UploadStatusInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Upload status updated successfully", upload)
}
