package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type visitorCount struct {
	Count int64 `json:"count"`
}

func (h HandlerSet) IncrementVisitors(c *gin.Context) {
	n, err := h.svc.Visitors.Increment(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", visitorCount{Count: n})
}

func (h HandlerSet) VisitorCount(c *gin.Context) {
	n, err := h.svc.Visitors.Count(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", visitorCount{Count: n})
}

func (h HandlerSet) ResetVisitors(c *gin.Context) {
	n, err := h.svc.Visitors.Reset(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Visitor count reset", visitorCount{Count: n})
}
