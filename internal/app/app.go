package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"family-chores-go/internal/bootstrap"
	"family-chores-go/internal/config"
	"family-chores-go/internal/db"
	categoriesdomain "family-chores-go/internal/domain/categories"
	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/identity"
	tasksdomain "family-chores-go/internal/domain/tasks"
	userdomain "family-chores-go/internal/domain/user"
	"family-chores-go/internal/queue"
	"family-chores-go/internal/repository/inmemory"
	localcategories "family-chores-go/internal/repository/local/categories"
	localfamily "family-chores-go/internal/repository/local/family"
	localtasks "family-chores-go/internal/repository/local/tasks"
	localuser "family-chores-go/internal/repository/local/user"
	pgcategories "family-chores-go/internal/repository/postgres/categories"
	pgfamily "family-chores-go/internal/repository/postgres/family"
	pgtasks "family-chores-go/internal/repository/postgres/tasks"
	pguser "family-chores-go/internal/repository/postgres/user"
	"family-chores-go/internal/store"
	"family-chores-go/internal/store/memory"
	"family-chores-go/internal/store/mongostore"
	"family-chores-go/internal/store/redisstore"
	"family-chores-go/internal/store/sqlstore"
	"family-chores-go/internal/transport/httpserver"
	"family-chores-go/internal/transport/httpserver/handler"
	categorieshandler "family-chores-go/internal/transport/httpserver/handler/categories"
	commonhandler "family-chores-go/internal/transport/httpserver/handler/common"
	familieshandler "family-chores-go/internal/transport/httpserver/handler/families"
	taskshandler "family-chores-go/internal/transport/httpserver/handler/tasks"
	"family-chores-go/pkg/logger"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

type App struct {
	cfg        config.Config
	httpServer *http.Server
	closers    []func() error
	log        logger.Logger
}

type repositories struct {
	categories categoriesdomain.Repository
	family     familydomain.Repository
	tasks      tasksdomain.Repository
	users      userdomain.Repository
}

func New(log logger.Logger) (*App, error) {
	log = logger.OrNop(log)

	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	// Reconfigure from LOG_* now that .env has been read.
	log = logger.NewWithOptions(os.Stdout, cfg.LoggerOptions()).With("service", "family-chores")

	a := &App{cfg: cfg, log: log}

	repos, err := a.openRepositories()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var publisher tasksdomain.Publisher
	if cfg.KafkaEnabled() {
		log.Info("app: enabling task events", "topic", cfg.Kafka.TaskTopic)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		queue.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.TaskTopic, 3, log)
		cancel()
		taskPublisher := queue.NewTaskPublisher(cfg.Kafka.Brokers, cfg.Kafka.TaskTopic, log)
		a.closers = append(a.closers, taskPublisher.Close)
		publisher = taskPublisher
	}

	scope := identity.ScopeGlobal
	if cfg.OwnershipScoped {
		scope = identity.ScopeOwner
	}

	categoriesService := categoriesdomain.NewService(repos.categories, scope, log)
	familyService := familydomain.NewService(repos.family, familydomain.Options{
		InviteTTL:     cfg.Family.InviteTTL,
		StrictInvites: cfg.Family.StrictInvites,
		Scope:         scope,
		Cache:         inmemory.NewFamilyCodeCache(),
	}, log)
	tasksService := tasksdomain.NewService(repos.tasks, tasksdomain.Options{
		Scope:      scope,
		Categories: categoriesService,
		Members:    familyService,
		Publisher:  publisher,
	}, log)
	usersService := userdomain.NewService(repos.users)

	handlers := handler.New(
		commonhandler.New(usersService, log),
		taskshandler.New(tasksService, categoriesService, cfg.Search.DeadlineLayout, log),
		categorieshandler.New(categoriesService, log),
		familieshandler.New(familyService, log),
	)

	log.Info("app: initializing router", "scope", scope.String())
	router := httpserver.NewRouter(cfg, handlers, usersService, log)
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

func (a *App) openRepositories() (repositories, error) {
	if a.cfg.Repository == config.RepositoryRemote {
		return a.openRemote()
	}
	return a.openLocal()
}

func (a *App) openRemote() (repositories, error) {
	a.log.Info("app: using relational repositories")
	dbConn, err := db.NewPostgres(a.cfg.DB, a.log)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, closeDB(dbConn))

	if err := db.Migrate(dbConn); err != nil {
		return repositories{}, fmt.Errorf("migrate: %w", err)
	}

	return repositories{
		categories: pgcategories.NewPostgres(dbConn),
		family:     pgfamily.NewPostgres(dbConn),
		tasks:      pgtasks.NewPostgres(dbConn),
		users:      pguser.NewPostgres(dbConn),
	}, nil
}

func (a *App) openLocal() (repositories, error) {
	s, err := a.openStore()
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, s.Close)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := bootstrap.Initialize(ctx, s, a.log); err != nil {
		if !a.cfg.BootstrapDegradedOK {
			return repositories{}, fmt.Errorf("bootstrap: %w", err)
		}
		a.log.Critical("app: bootstrap failed, continuing degraded", "err", err)
	}

	return repositories{
		categories: localcategories.NewLocal(s),
		family:     localfamily.NewLocal(s),
		tasks:      localtasks.NewLocal(s),
		users:      localuser.NewLocal(s),
	}, nil
}

func (a *App) openStore() (store.Store, error) {
	a.log.Info("app: opening record store", "driver", a.cfg.StoreDriver)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch a.cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		dbConn, err := db.NewSQLite(a.cfg.SQLitePath, a.log)
		if err != nil {
			return nil, err
		}
		return newSQLStore(dbConn)
	case config.DriverPostgres:
		dbConn, err := db.NewPostgres(a.cfg.DB, a.log)
		if err != nil {
			return nil, err
		}
		return newSQLStore(dbConn)
	case config.DriverRedis:
		return redisstore.New(ctx, a.cfg.Redis.URL, a.cfg.Redis.KeyPrefix, a.cfg.Redis.PoolSize)
	case config.DriverMongo:
		return mongostore.New(ctx, a.cfg.Mongo.URI, a.cfg.Mongo.Database)
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", a.cfg.StoreDriver)
	}
}

func newSQLStore(dbConn *gorm.DB) (store.Store, error) {
	s, err := sqlstore.New(dbConn)
	if err != nil {
		_ = closeDB(dbConn)()
		return nil, err
	}
	return s, nil
}

func closeDB(dbConn *gorm.DB) func() error {
	return func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
