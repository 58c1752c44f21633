// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	catalogrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/catalog"
	communityrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/community"
	contentrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	userrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/printify"
	"github.com/AtRiskMedia/fanhub-go/pkg/config"
)

// Options override infrastructure that would otherwise be built from
// pkg/config. Nil fields use the configured defaults.
type Options struct {
	Vendor      catalog.VendorCatalog
	Mailer      email.Service
	MediaPath   string
	JWTSecret   string
	CORSOrigins []string
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	AuthService      *services.AuthService
	ProfileService   *services.ProfileService
	ContentService   *services.ContentService
	CommunityService *services.CommunityService
	CatalogService   *services.CatalogService
	CartService      *services.CartService
	HomeService      *services.HomeService

	// Repositories
	Profiles *userrepo.SQLProfileRepository
	Sessions *userrepo.SQLSessionRepository
	Products *catalogrepo.SQLProductRepository
	Content  *contentrepo.ContentRepository

	// Infrastructure Dependencies
	DB              *database.DB
	Logger          *logging.ChanneledLogger
	PerfTracker     *performance.Tracker
	FeedHub         *messaging.FeedHub
	Carts           *stores.CartStore
	CleanupWorker   *cleanup.Worker
	CleanupReporter *cleanup.Reporter
	Images          *media.ImageProcessor
	CORSOrigins     []string
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, opts Options) *Container {
	perfTracker := performance.NewTracker(&performance.TrackerConfig{
		SlowThreshold: config.PerfThreshold,
		Logger:        logger,
	})

	mediaPath := opts.MediaPath
	if mediaPath == "" {
		mediaPath = config.MediaPath
	}
	jwtSecret := opts.JWTSecret
	if jwtSecret == "" {
		jwtSecret = config.JWTSecret
	}
	origins := opts.CORSOrigins
	if origins == nil {
		origins = config.CORSOrigins
	}

	vendor := opts.Vendor
	if vendor == nil {
		client := printify.NewClient(printify.Config{
			BaseURL:     config.PrintifyAPIURL,
			APIKey:      config.PrintifyAPIKey,
			RPS:         config.PrintifyRPS,
			Burst:       config.PrintifyBurst,
			MaxAttempts: config.PrintifyMaxAttempts,
			BaseBackoff: config.PrintifyBaseBackoff,
			Timeout:     config.PrintifyTimeout,
			CacheTTL:    config.PrintifyCacheTTL,
		}, logger)
		if client.Configured() {
			vendor = client
		} else {
			logger.Startup().Warn("PRINTIFY_API_KEY not set, vendor product options unavailable")
		}
	}

	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.NewService(email.Config{
			APIKey:    config.ResendAPIKey,
			FromEmail: config.EmailFrom,
			FromName:  config.EmailFromName,
			AppURL:    config.AppURL,
		}, logger)
	}

	profiles := userrepo.NewSQLProfileRepository(db, logger)
	sessions := userrepo.NewSQLSessionRepository(db, logger)
	activity := userrepo.NewSQLActivityRepository(db, logger)
	items := contentrepo.NewContentRepository(db, logger)
	products := catalogrepo.NewSQLProductRepository(db, logger)
	posts := communityrepo.NewSQLPostRepository(db, logger)
	comments := communityrepo.NewSQLCommentRepository(db, logger)

	hub := messaging.NewFeedHub(logger)
	carts := stores.NewCartStore(config.CartTTL, logger)
	images := media.NewImageProcessor(mediaPath, config.MediaURLPrefix, logger)

	authService := services.NewAuthService(profiles, sessions, mailer, services.AuthConfig{
		JWTSecret:     jwtSecret,
		SessionTTL:    config.SessionTTL,
		DefaultAvatar: config.DefaultAvatar,
	}, logger)
	contentService := services.NewContentService(items, logger)
	communityService := services.NewCommunityService(posts, comments, items, images, hub, logger)
	catalogService := services.NewCatalogService(products, vendor, logger)

	cleanupWorker := cleanup.NewWorker(carts, sessions, cleanup.NewConfig(), logger)

	return &Container{
		AuthService:      authService,
		ProfileService:   services.NewProfileService(profiles, activity, images, logger),
		ContentService:   contentService,
		CommunityService: communityService,
		CatalogService:   catalogService,
		CartService:      services.NewCartService(carts, catalogService, logger),
		HomeService:      services.NewHomeService(contentService, communityService, catalogService),

		Profiles: profiles,
		Sessions: sessions,
		Products: products,
		Content:  items,

		DB:              db,
		Logger:          logger,
		PerfTracker:     perfTracker,
		FeedHub:         hub,
		Carts:           carts,
		CleanupWorker:   cleanupWorker,
		CleanupReporter: cleanupWorker.Reporter(),
		Images:          images,
		CORSOrigins:     origins,
	}
}
