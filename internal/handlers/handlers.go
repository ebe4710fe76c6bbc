package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cscportal/api/internal/config"
	"cscportal/api/internal/middleware"
	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

// Services bundles the managers the gateway exposes.
type Services struct {
	Auth          *service.AuthService
	Catalog       *service.CatalogService
	Contacts      *service.ContactService
	Uploads       *service.UploadService
	Offers        *service.OfferService
	Notifications *service.NotificationService
	Visitors      *service.VisitorService
	Dashboard     *service.DashboardService
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	svc   Services
	db    Pinger
	redis *redis.Client
}

// NewHandlerSet wires the managers to routes. db and rdb may be nil; the
// health check then reports them as disabled and the response cache is off.
func NewHandlerSet(cfg *config.AppConfig, log zerolog.Logger, svc Services, db Pinger, rdb *redis.Client) HandlerSet {
	return HandlerSet{
		log:   log,
		cfg:   cfg,
		svc:   svc,
		db:    db,
		redis: rdb,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	cached := middleware.ResponseCache(h.cfg.Cache, h.redis, h.log)
	windowed := middleware.ResponseCache(h.cfg.Cache.Windowed(), h.redis, h.log)
	protected := []gin.HandlerFunc{
		middleware.Auth(h.svc.Auth),
		middleware.RequireRoles(models.ManagementRoles...),
		middleware.InvalidateCache(h.cfg.Cache, h.redis, h.log),
	}
	guard := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(protected)+1)
		chain = append(chain, protected...)
		return append(chain, handler)
	}

	router.GET("/health", h.Health)

	admin := router.Group("/admin")
	{
		admin.POST("/register", middleware.OptionalAuth(h.svc.Auth), h.RegisterAdmin)
		admin.POST("/login", h.Login)
		admin.GET("/profile", guard(h.Profile)...)
		admin.PUT("/profile", guard(h.UpdateProfile)...)
		admin.PUT("/change-password", guard(h.ChangePassword)...)
		admin.GET("/dashboard/stats", guard(h.DashboardStats)...)
	}

	services := router.Group("/services")
	{
		services.GET("", cached, h.ListServices)
		services.GET("/all", guard(h.ListAllServices)...)
		services.GET("/:id", h.GetService)
		services.POST("", guard(h.CreateService)...)
		services.PUT("/:id", guard(h.UpdateService)...)
		services.DELETE("/:id", guard(h.DeleteService)...)
	}

	contact := router.Group("/contact")
	{
		contact.POST("", h.SubmitContact)
		contact.GET("", guard(h.ListContacts)...)
		contact.GET("/stats", guard(h.ContactStats)...)
		contact.PUT("/:id/status", guard(h.UpdateContactStatus)...)
	}

	upload := router.Group("/upload")
	{
		upload.POST("", h.SubmitUpload)
		upload.GET("", guard(h.ListUploads)...)
		upload.GET("/service/:serviceId", guard(h.ListServiceUploads)...)
		upload.GET("/stats", guard(h.UploadStats)...)
		upload.PUT("/:id/status", guard(h.UpdateUploadStatus)...)
	}

	offers := router.Group("/offers")
	{
		offers.GET("", windowed, h.PopupOffers)
		offers.GET("/active", windowed, h.PopupOffers)
		offers.POST("/:id/track-click", h.TrackOfferClick)
		offers.GET("/all", guard(h.ListAllOffers)...)
		offers.GET("/analytics", guard(h.OfferAnalytics)...)
		offers.POST("", guard(h.CreateOffer)...)
		offers.PUT("/:id", guard(h.UpdateOffer)...)
		offers.DELETE("/:id", guard(h.DeactivateOffer)...)
	}

	notifications := router.Group("/notifications")
	{
		notifications.GET("/active", windowed, h.ActiveNotifications)
		notifications.GET("", guard(h.ListNotifications)...)
		notifications.POST("", guard(h.CreateNotification)...)
		notifications.PUT("/:id", guard(h.UpdateNotification)...)
		notifications.DELETE("/:id", guard(h.DeleteNotification)...)
	}

	visitor := router.Group("/visitor")
	{
		visitor.POST("/increment", h.IncrementVisitors)
		visitor.GET("/count", h.VisitorCount)
		visitor.POST("/reset", guard(h.ResetVisitors)...)
	}
}
