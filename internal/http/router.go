package api

import (
	"log"
	stdhttp "net/http"

	intconfig "safari/internal/config"
	h "safari/internal/http/handlers"
	"safari/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, h.ErrorResponse{
			Error:     "route not found: " + c.Request.Method + " " + c.Request.URL.Path,
			Code:      "not_found",
			RequestID: middleware.GetRequestID(c),
		})
	})

	bookingLimiter := middleware.NewRateLimiter(env.BookingRatePerMin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", h.Routes)

		public := api.Group("/public")
		public.POST("/package-deals", hd.PackageDeals)
		public.GET("/package-deals", hd.PackageDeals)
		public.GET("/addons", hd.Addons)
		public.GET("/packages", hd.Packages)
		public.GET("/packages/:slug", hd.PackageBySlug)

		bookings := public.Group("/bookings")
		bookings.POST("", bookingLimiter.Limit(), hd.CreateBooking)
		bookings.GET("/:id", hd.GetBooking)
		bookings.GET("/:id/voucher", hd.BookingVoucher)

		admin := api.Group("/admin")
		admin.POST("/auth/login", hd.AdminLogin)

		secured := admin.Group("", middleware.RequireAdmin(hd.Auth.Issuer), middleware.RequireRoles("owner", "admin"))
		mountAdminBookings(secured.Group("/bookings"), hd)
		mountAdminCatalog(secured, hd)
		secured.POST("/vouchers/verify", hd.AdminVerifyVoucher)
	}

	h.SetRouter(r)
	return r
}

func mountAdminBookings(g *gin.RouterGroup, hd *h.Handler) {
	g.GET("", hd.AdminListBookings)
	g.GET("/:id", hd.GetBooking)
	g.PUT("/:id/status", hd.AdminUpdateBookingStatus)
}

func mountAdminCatalog(g *gin.RouterGroup, hd *h.Handler) {
	g.POST("/deals", hd.CreateDeal)
	g.PUT("/deals/:id", hd.UpdateDeal)
	g.POST("/addons", hd.CreateAddon)
	g.PUT("/addons/:id", hd.UpdateAddon)
}
