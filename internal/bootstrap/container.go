package bootstrap

import (
	"context"
	"log"

	"mallfinder-be/internal/config"
	"mallfinder-be/internal/controller"
	"mallfinder-be/internal/pkg/logger"
	"mallfinder-be/internal/repository/contract"
	"mallfinder-be/internal/repository/implementation"
	"mallfinder-be/internal/repository/memory"
	"mallfinder-be/internal/repository/redisstore"
	"mallfinder-be/internal/service"
	"mallfinder-be/pkg/catalog"
	"mallfinder-be/pkg/identity"
	"mallfinder-be/pkg/mallsearch"
	"mallfinder-be/pkg/match"
	"mallfinder-be/pkg/natsbus"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	BotController   controller.IBotController
	AdminController controller.IAdminController

	// Background services (exposed for main.go to run)
	ActivityService service.IActivityService

	SysLogger logger.ILogger
}

// NewContainer wires the whole application. db may be nil in local setups;
// saved queries then live in process memory, same for Redis and sessions.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	actLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)

	// Catalog and matching
	cat, err := catalog.Load(cfg.Catalog.MallsFile, cfg.Catalog.AliasesFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load mall catalog: %v", err)
	}
	resolver := match.NewResolver(cat,
		match.WithAliasThreshold(cfg.Matcher.AliasThreshold),
		match.WithStoreThreshold(cfg.Matcher.StoreThreshold),
	)
	engine := mallsearch.NewEngine(cat, resolver)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS mirror for the activity stream, optional
	var natsPub *natsbus.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = natsbus.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Sessions: Redis when configured, in-process otherwise
	var sessionRepo contract.SessionRepository
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisstore.NewSessionRepository(rdb)
	} else {
		log.Println("[INFO] REDIS_URL not set, sessions are in-memory")
		sessionRepo = memory.NewSessionRepository()
	}

	// Saved queries: Postgres when a connection exists
	var savedQueryRepo contract.SavedQueryRepository
	if db != nil {
		savedQueryRepo = implementation.NewSavedQueryRepository(db)
	} else {
		log.Println("[INFO] No database connection, saved queries are in-memory")
		savedQueryRepo = memory.NewSavedQueryRepository()
	}

	anonymizer, err := identity.NewAnonymizer(identity.Config{
		Secret:  cfg.Identity.MapSecret,
		KeyFile: cfg.Identity.KeyFile,
		MapFile: cfg.Identity.MapFile,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize identity anonymizer: %v", err)
	}

	activityService := service.NewActivityService(pubSub, pubSub, actLogger, sysLogger, natsPub)

	dialogService := service.NewDialogService(
		cat,
		resolver,
		engine,
		sessionRepo,
		savedQueryRepo,
		anonymizer,
		activityService,
		sysLogger,
		cfg.App.StoreTimeout,
		cfg.Matcher.Candidates,
	)

	return &Container{
		BotController:   controller.NewBotController(dialogService, cfg.App.BotAPIToken),
		AdminController: controller.NewAdminController(sysLogger, actLogger),
		ActivityService: activityService,
		SysLogger:       sysLogger,
	}
}
