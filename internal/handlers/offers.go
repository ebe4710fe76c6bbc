package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/service"
)

// PopupOffers backs both public offer routes. The list holds at most one
// offer.
func (h HandlerSet) PopupOffers(c *gin.Context) {
	offers, err := h.svc.Offers.Popup(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(offers))
}

func (h HandlerSet) TrackOfferClick(c *gin.Context) {
	if err := h.svc.Offers.TrackClick(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Click tracked", nil)
}

func (h HandlerSet) ListAllOffers(c *gin.Context) {
	offers, err := h.svc.Offers.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", list(offers))
}

func (h HandlerSet) OfferAnalytics(c *gin.Context) {
	report, err := h.svc.Offers.Analytics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", report)
}

func (h HandlerSet) CreateOffer(c *gin.Context) {
	input, err := h.offerInput(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	offer, err := h.svc.Offers.Create(c.Request.Context(), *middleware.CurrentAdmin(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Offer created successfully", offer)
}

func (h HandlerSet) UpdateOffer(c *gin.Context) {
	input, err := h.offerInput(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	offer, err := h.svc.Offers.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Offer updated successfully", offer)
}

func (h HandlerSet) DeactivateOffer(c *gin.Context) {
	if err := h.svc.Offers.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Offer deactivated successfully", nil)
}

func (h HandlerSet) offerInput(c *gin.Context) (service.OfferInput, error) {
	if isMultipart(c) {
		h.limitBody(c, 1)
	}
	fields, err := readFields(c)
	if err != nil {
		return service.OfferInput{}, err
	}

	image, err := h.formFile(c, "image")
	if err != nil {
		return service.OfferInput{}, err
	}
	return service.OfferInput{
		Title:           field(fields, "title"),
		Description:     field(fields, "description"),
		Discount:        field(fields, "discount"),
		DiscountType:    field(fields, "discountType"),
		Services:        field(fields, "services"),
		ValidFrom:       field(fields, "validFrom"),
		ValidUntil:      field(fields, "validUntil"),
		IsActive:        field(fields, "isActive"),
		ShowOnPopup:     field(fields, "showOnPopup"),
		WhatsappMessage: field(fields, "whatsappMessage"),
		Image:           image,
	}, nil
}
