package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/http/middleware"
	"safari/internal/utils"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// CreateBooking stores a public booking and returns its id and the server
// computed total.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.bookingSvc(c).Create(c.Request.Context(), req, c.GetHeader(idempotencyHeader))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, res)
}

// GetBooking serves the confirmation view.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rec, err := h.bookingSvc(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, rec)
}

func (h *Handler) BookingVoucher(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.voucherSvc(c).Generate(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// AdminListBookings supports ?status=&page=&page_size=.
func (h *Handler) AdminListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Page:   domain.Pagination{Page: queryInt(c, "page"), PageSize: queryInt(c, "page_size")},
	}
	page, err := h.bookingSvc(c).List(c.Request.Context(), filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) AdminUpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rec, err := h.bookingSvc(c).UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	admin := middleware.CurrentAdmin(c)
	utils.LogEventf(middleware.GetRequestID(c), "admin", "booking_status", "admin_id=%d booking_id=%d status=%s",
		admin.AdminID, id, rec.Status)
	respondOK(c, http.StatusOK, rec)
}

type verifyVoucherRequest struct {
	Code string `json:"code"`
}

// AdminVerifyVoucher checks a scanned voucher QR code at pickup.
func (h *Handler) AdminVerifyVoucher(c *gin.Context) {
	var req verifyVoucherRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rec, err := h.voucherSvc(c).Verify(c.Request.Context(), req.Code)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"valid":   rec.Status == domain.BookingConfirmed || rec.Status == domain.BookingPending,
		"booking": rec,
	})
}
