package cmd

import (
	"context"
	"fmt"
	"net/http"

	"storefront/api"
	"storefront/api/health"
	apiorder "storefront/api/order"
	orderapp "storefront/application/order"
	"storefront/config"
	"storefront/domain/catalog"
	orderdomain "storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/auth"
	"storefront/infrastructure/persistence/mocks"
	"storefront/infrastructure/persistence/mysql"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder wires configuration, persistence and HTTP into an App.
// Components set through the With* methods replace the configured ones.
type AppBuilder struct {
	cfg           *config.Config
	orders        orderdomain.Repository
	products      catalog.Reader
	uow           shared.UnitOfWork
	authenticator user.Authenticator
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithPersistence skips database setup and uses the given stores
func (b *AppBuilder) WithPersistence(orders orderdomain.Repository, products catalog.Reader, uow shared.UnitOfWork) *AppBuilder {
	b.orders, b.products, b.uow = orders, products, uow
	return b
}

// WithAuthenticator replaces the JWT authenticator
func (b *AppBuilder) WithAuthenticator(a user.Authenticator) *AppBuilder {
	b.authenticator = a
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build() (*App, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	var db *gorm.DB
	if b.orders == nil {
		var err error
		switch b.cfg.Database.Type {
		case "mysql":
			db, err = b.initMySQL()
		default:
			b.initMock()
		}
		if err != nil {
			return nil, err
		}
	}

	var reg *metrics.Registry
	if b.cfg.Metrics.Enabled {
		reg = metrics.New(b.cfg.Metrics.Namespace)
	}

	var checker orderdomain.CodeChecker
	if b.cfg.Order.CheckCodeBeforeInsert {
		checker = b.orders
	}

	var recorder orderapp.Recorder
	if reg != nil {
		recorder = reg
	}
	orderService := orderapp.NewApplicationService(b.orders, b.products, b.uow, orderdomain.NewCodeGenerator(checker), recorder)

	if b.authenticator == nil {
		b.authenticator = auth.NewJWTAuthenticator(b.cfg.Auth.JWTSecret, b.cfg.Auth.Issuer, b.cfg.Auth.TokenTTL)
	}

	var ping health.Pinger
	if db != nil {
		ping = func(ctx context.Context) error { return mysql.Ping(ctx, db) }
	}

	router := api.NewRouter(b.cfg, reg, b.authenticator,
		health.NewController(b.cfg, ping),
		apiorder.NewController(orderService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		db:     db,
	}, nil
}

func (b *AppBuilder) initMySQL() (*gorm.DB, error) {
	logger.Info("Using MySQL/GORM persistence layer")

	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		return nil, err
	}
	if err := mysql.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, err
		}
		logger.Info("Schema migrated")
	}

	b.orders = mysql.NewOrderRepository(db)
	b.products = mysql.NewProductRepository(db)
	b.uow = mysql.NewUnitOfWork(db, retry.FromAppConfig(b.cfg))
	return db, nil
}

// initMock in-memory stores with a small demo catalog
func (b *AppBuilder) initMock() {
	logger.Warn("Using in-memory persistence; data is lost on restart")

	b.orders = mocks.NewMockOrderRepository()
	b.products = mocks.NewMockCatalog(
		catalog.Product{ID: "espresso", Name: "Espresso", Price: shared.MustMoney("2.50")},
		catalog.Product{ID: "croissant", Name: "Croissant", Price: shared.MustMoney("3.20")},
		catalog.Product{ID: "beans-1kg", Name: "Coffee beans 1kg", Price: shared.MustMoney("24.90")},
	)
	b.uow = mocks.NewMockUnitOfWorkWithRetry(retry.FromAppConfig(b.cfg))
}
