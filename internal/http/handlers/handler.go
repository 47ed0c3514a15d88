package handlers

import (
	"database/sql"

	"safari/internal/http/middleware"
	"safari/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler serves every API route. Services are copied per request so their
// logs carry the request id.
type Handler struct {
	Catalog  services.CatalogService
	Bookings services.BookingService
	Vouchers services.VoucherService
	Auth     services.AuthService
	DB       *sql.DB
}

func (h *Handler) catalogSvc(c *gin.Context) services.CatalogService {
	svc := h.Catalog
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) bookingSvc(c *gin.Context) services.BookingService {
	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) voucherSvc(c *gin.Context) services.VoucherService {
	svc := h.Vouchers
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) authSvc(c *gin.Context) services.AuthService {
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}
