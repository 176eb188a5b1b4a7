// Package app assembles repositories, module services and HTTP handlers
// into a single gin engine.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dogsalon/internal/config"
	"dogsalon/internal/middleware"
	"dogsalon/internal/modules/admin"
	"dogsalon/internal/modules/auth"
	"dogsalon/internal/modules/booking"
	"dogsalon/internal/modules/catalog"
	"dogsalon/internal/modules/contact"
	"dogsalon/internal/modules/gallery"
	"dogsalon/internal/modules/notification"
	"dogsalon/internal/pkg/i18n"
	jwtsvc "dogsalon/internal/pkg/jwt"
	"dogsalon/internal/pkg/validator"
	"dogsalon/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Cache stores computed slot lists. cache.Redis and cache.Memory both fit.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type Deps struct {
	DB     *gorm.DB
	Cache  Cache
	Mailer notification.Mailer
	Log    *zap.Logger
	// Clock overrides time.Now for the booking and admin services.
	Clock func() time.Time
}

type App struct {
	Router *gin.Engine
	Hub    *notification.Hub
	Tokens *jwtsvc.Service
}

func New(cfg *config.Config, deps Deps) (*App, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	loc := cfg.Location()

	validator.RegisterGin()

	tr, err := i18n.New(cfg.App.DefaultLang)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	tokens := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL).WithActivationTTL(cfg.Auth.ActivationTTL)

	userRepo := repository.NewUserRepository(deps.DB)
	serviceRepo := repository.NewServiceRepository(deps.DB)
	bookingRepo := repository.NewBookingRepository(deps.DB)
	contactRepo := repository.NewContactRepository(deps.DB)

	hub := notification.NewHub()
	notifier := notification.NewService(deps.Mailer, hub, tr, notification.Options{
		AdminEmail: cfg.Mail.AdminEmail,
		Lang:       cfg.App.DefaultLang,
		Location:   loc,
	}, log)
	wsHandler := notification.NewWSHandler(hub, tokens, cfg.CORS.AllowedOrigins, log)

	authService := auth.NewService(userRepo, tokens, notifier, auth.Settings{
		RequireActivation: cfg.Auth.RequireActivation,
		ActivationURL:     cfg.App.BaseURL + "/api/v1/auth/activate",
	}, log)
	authHandler := auth.NewHandler(authService)

	store := gallery.NewStore(cfg.Media.Root, cfg.Media.URLPrefix, cfg.Media.MaxUploadMB<<20)
	galleryHandler := gallery.NewHandler(gallery.NewService(store, log))

	catalogService := catalog.NewService(serviceRepo, bookingRepo, store, deps.Cache, log)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, serviceRepo, contactRepo, userRepo, notifier, deps.Cache, booking.Settings{
		DefaultOpen:  cfg.Booking.Open,
		DefaultClose: cfg.Booking.Close,
		Step:         cfg.Booking.SlotStep,
		Gap:          cfg.Booking.Gap,
		HorizonDays:  cfg.Booking.HorizonDays,
		Location:     loc,
		CacheTTL:     cfg.Redis.SlotTTL,
	}, log)
	contactService := contact.NewService(contactRepo, userRepo, notifier, deps.Cache, log)
	adminService := admin.NewService(userRepo, bookingRepo, serviceRepo, notifier, loc, log)
	if deps.Clock != nil {
		bookingService.WithClock(deps.Clock)
		adminService.WithClock(deps.Clock)
	}
	bookingHandler := booking.NewHandler(bookingService, tr)
	contactHandler := contact.NewHandler(contactService)
	adminHandler := admin.NewHandler(adminService)

	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Locale(tr),
	)
	r.Static(cfg.Media.URLPrefix, cfg.Media.Root)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1, loginLimiter.Middleware())
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		contactHandler.RegisterPublicRoutes(v1)
		galleryHandler.RegisterPublicRoutes(v1)

		// The websocket carries its token in the query string.
		wsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			contactHandler.RegisterProtectedRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			bookingHandler.RegisterAdminRoutes(adminGroup)
			catalogHandler.RegisterAdminRoutes(adminGroup)
			contactHandler.RegisterAdminRoutes(adminGroup)
			galleryHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	return &App{Router: r, Hub: hub, Tokens: tokens}, nil
}
