// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"ticketera/internal/analytics"
	"ticketera/internal/auth"
	"ticketera/internal/blog"
	"ticketera/internal/bookings"
	"ticketera/internal/events"
	"ticketera/internal/notifications"
	"ticketera/internal/payments"
	"ticketera/internal/search"
	"ticketera/internal/seats"
	"ticketera/internal/settings"
	"ticketera/internal/shared/config"
	"ticketera/internal/shared/database"
	"ticketera/internal/transport"
	"ticketera/internal/users"
	"ticketera/internal/venues"
	"ticketera/pkg/cache"
	"ticketera/pkg/kafka"
	"ticketera/pkg/logger"
	"ticketera/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

const serviceName = "ticketera-api"

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	rateLimiter *ratelimit.RateLimiter
	producer    kafka.Producer
	cache       cache.Service

	broadcaster         *payments.Broadcaster
	paymentService      payments.Service
	notificationService notifications.Service
	settingService      settings.Service
}

// NewRouter creates a new router instance. producer may be nil, in which case
// payment confirmations and notification dispatch run in-process.
func NewRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, producer kafka.Producer) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		rateLimiter: rateLimiter,
		producer:    producer,
		cache:       cache.NewService(db.GetRedis()),
		broadcaster: payments.NewBroadcaster(logger.GetDefault().Watermill()),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	pg := r.db.GetPostgreSQL()
	secret := r.config.JWT.Secret

	api := engine.Group(r.config.GetAPIBasePath())

	// Accounts
	userRepo := users.NewRepository(pg)
	users.SetupUserRoutes(api, users.NewController(users.NewService(userRepo)), secret)
	auth.SetupAuthRoutes(api, auth.NewController(auth.NewService(userRepo, r.config)), secret)

	// Catalogue
	venueService := venues.NewService(venues.NewRepository(pg), r.cache)
	venues.SetupVenueRoutes(api, venues.NewController(venueService), secret)

	eventService := events.NewService(events.NewRepository(pg), venueService, r.cache)
	events.SetupEventRoutes(api, events.NewController(eventService), secret)

	routeService := transport.NewService(transport.NewRepository(pg), r.cache)
	transport.SetupTransportRoutes(api, transport.NewController(routeService), secret)

	search.SetupSearchRoutes(api, search.NewController(
		search.NewService(eventService, routeService, r.cache, r.config.Redis.SearchCacheTTL),
	))

	// Checkout
	holds := seats.NewHoldStore(r.db.GetRedis())
	seatService := seats.NewService(seats.NewRepository(pg), holds, eventService, venueService, r.config.Redis.SeatHoldTTL)
	seats.SetupSeatRoutes(api, seats.NewController(seatService), secret)

	bookingService := bookings.NewService(bookings.NewRepository(pg), seatService, eventService, routeService)
	bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), secret)

	r.paymentService = payments.NewService(
		payments.NewSessionStore(r.db.GetRedis(), r.config.Payments.SessionTTL),
		bookingService,
		r.broadcaster,
		r.paymentPublisher(),
		payments.Options{
			QRExpiry:        r.config.Payments.QRExpiry,
			ProcessingDelay: r.config.Payments.ProcessingDelay,
			WebhookSecret:   r.config.Payments.WebhookSecret,
			PayeeNumber:     r.config.Payments.QRPayeeNumber,
			Currency:        r.config.Payments.Currency,
		},
	)
	var limiters []gin.HandlerFunc
	if r.rateLimiter != nil {
		limiters = append(limiters, ratelimit.Limit(r.rateLimiter, ratelimit.RateLimitTypeCheckoutCritical))
	}
	payments.SetupPaymentRoutes(api, payments.NewController(r.paymentService, r.config.Payments.StreamInterval), secret, limiters...)

	// Notifications
	r.notificationService = notifications.NewService(
		notifications.NewRepository(pg),
		notifications.NewUserRecipients(userRepo),
		r.emailService(),
		r.notificationDispatcher(),
		r.config.Email.FromName,
	)
	notifications.SetupNotificationRoutes(api, notifications.NewController(r.notificationService), secret)

	// Content and administration
	blog.SetupBlogRoutes(api, blog.NewController(blog.NewService(blog.NewRepository(pg))), secret)

	r.settingService = settings.NewService(settings.NewRepository(pg), r.cache)
	settings.SetupSettingRoutes(api, settings.NewController(r.settingService), secret)

	analytics.SetupAnalyticsRoutes(api, analytics.NewController(
		analytics.NewService(analytics.NewRepository(pg), r.cache),
	), secret)
}

// PaymentService is available once SetupRoutes has run
func (r *Router) PaymentService() payments.Service {
	return r.paymentService
}

// NotificationService is available once SetupRoutes has run
func (r *Router) NotificationService() notifications.Service {
	return r.notificationService
}

// SettingService is available once SetupRoutes has run
func (r *Router) SettingService() settings.Service {
	return r.settingService
}

// Close releases in-process subscribers
func (r *Router) Close() error {
	return r.broadcaster.Close()
}

func (r *Router) paymentPublisher() payments.Publisher {
	if r.producer == nil {
		return nil
	}
	return payments.NewKafkaPublisher(r.producer, r.config.Kafka.PaymentTopic)
}

func (r *Router) notificationDispatcher() notifications.Dispatcher {
	if r.producer == nil {
		return nil
	}
	return notifications.NewKafkaDispatcher(r.producer, r.config.Kafka.NotificationTopic)
}

func (r *Router) emailService() notifications.EmailService {
	log := logger.GetDefault().WithComponent("router")
	if r.config.Email.SMTPHost == "" {
		log.Info("SMTP not configured, emails will be logged")
		return notifications.NewLogEmailService()
	}

	smtp, err := notifications.NewSMTPEmailService(&notifications.SMTPConfig{
		Host:      r.config.Email.SMTPHost,
		Port:      r.config.Email.SMTPPort,
		Username:  r.config.Email.SMTPUsername,
		Password:  r.config.Email.SMTPPassword,
		FromEmail: r.config.Email.FromEmail,
		FromName:  r.config.Email.FromName,
		UseTLS:    r.config.Email.SMTPPort == 587,
	})
	if err != nil {
		log.WithError(err).Warn("invalid SMTP configuration, falling back to log delivery")
		return notifications.NewLogEmailService()
	}
	return smtp
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"kafka":       r.producer != nil,
			"timestamp":   time.Now(),
		})
	})
}
