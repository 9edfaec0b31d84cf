package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/helpdesk-console/api"
	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/asset"
	assetPostgres "github.com/frahmantamala/helpdesk-console/internal/asset/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/audit"
	auditPostgres "github.com/frahmantamala/helpdesk-console/internal/audit/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/auth"
	authPostgres "github.com/frahmantamala/helpdesk-console/internal/auth/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
	"github.com/frahmantamala/helpdesk-console/internal/itam"
	itamPostgres "github.com/frahmantamala/helpdesk-console/internal/itam/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/kb"
	kbPostgres "github.com/frahmantamala/helpdesk-console/internal/kb/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/monitoring"
	"github.com/frahmantamala/helpdesk-console/internal/realtime"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/srm"
	srmPostgres "github.com/frahmantamala/helpdesk-console/internal/srm/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/stats"
	statsPostgres "github.com/frahmantamala/helpdesk-console/internal/stats/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/sysupdate"
	"github.com/frahmantamala/helpdesk-console/internal/ticket"
	ticketPostgres "github.com/frahmantamala/helpdesk-console/internal/ticket/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
	"github.com/frahmantamala/helpdesk-console/internal/transport/middleware"
	"github.com/frahmantamala/helpdesk-console/internal/transport/rest"
	"github.com/frahmantamala/helpdesk-console/internal/user"
	userPostgres "github.com/frahmantamala/helpdesk-console/internal/user/postgres"
	"github.com/frahmantamala/helpdesk-console/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Bus      *events.EventBus
	Hub      *realtime.Hub
	Updates  *sysupdate.Service
	Metrics  *monitoring.Service
	detaches []func()
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	runCtx, stopBackground := context.WithCancel(context.Background())
	go deps.Metrics.Run(runCtx, deps.Config.Simulation.RefreshMetrics)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		deps.Hub.Close()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			stopBackground()
			os.Exit(1)
		}
	}

	stopBackground()
	deps.shutdown()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) shutdown() {
	for _, detach := range d.detaches {
		detach()
	}
	d.Updates.Close()
	d.Bus.Wait()
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	cache := resource.NewQueryCache(lg)
	notifier := resource.NewNotifier(cache, deps.Bus, lg)
	policies := resource.PoliciesFromConfig(cfg.Resources.DeletePolicy)
	rdeps := resource.Deps{
		Cache:         cache,
		Notifier:      notifier,
		Confirmations: resource.NewConfirmations(cfg.Resources.ConfirmTTL, lg),
		Policies:      policies,
		DetailTimeout: cfg.Resources.DetailChildTimeout,
	}

	auditRepo := auditPostgres.NewAuditRepository(deps.Gorm)
	auditService := audit.NewService(auditRepo, lg)
	deps.detaches = append(deps.detaches, audit.NewRecorder(auditRepo, lg).Attach(deps.Bus))

	if cfg.Realtime.Enabled {
		deps.detaches = append(deps.detaches, deps.Hub.Attach(deps.Bus))
	}

	assetService := asset.NewService(assetPostgres.NewAssetRepository(deps.Gorm, policies.For(resource.EntityAssets)), auditService, rdeps, lg)
	itamService := itam.NewService(itamPostgres.NewITAMRepository(deps.Gorm, policies.For(resource.EntityITAMAssets)), rdeps, lg)
	ticketService := ticket.NewService(ticketPostgres.NewTicketRepository(deps.Gorm, policies.For(resource.EntityTickets)), auditService, rdeps, lg)
	requestService := srm.NewRequestService(srmPostgres.NewRequestRepository(deps.Gorm, policies.For(resource.EntityServiceRequests)), auditService, rdeps, lg)
	changeService := srm.NewChangeService(srmPostgres.NewChangeRepository(deps.Gorm, policies.For(resource.EntityChangeRequests)), auditService, rdeps, lg)
	kbService := kb.NewService(kbPostgres.NewArticleRepository(deps.Gorm, policies.For(resource.EntityKBArticles)), auditService, rdeps, lg)
	statsService := stats.NewService(statsPostgres.NewStatsRepository(deps.DB, cfg.Database.Dialect), cache, lg)

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, cfg.Security.BCryptCost, lg)
	userService := user.NewService(userPostgres.NewRepository(deps.Gorm), lg)

	opts := rest.RouterOptions{
		Origins:  cfg.Server.Origins(),
		Contract: api.Contract,
	}
	if cfg.Server.ValidateRequests {
		doc, err := middleware.LoadContract(context.Background(), api.Contract)
		if err != nil {
			return err
		}
		validator, err := middleware.RequestValidator(doc, lg)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:        rest.NewHealthHandler(deps.DB),
		Auth:          auth.NewHandler(base, authService),
		User:          user.NewHandler(base, userService),
		Asset:         asset.NewHandler(base, assetService),
		ITAM:          itam.NewHandler(base, itamService),
		Ticket:        ticket.NewHandler(base, ticketService),
		SRM:           srm.NewHandler(base, requestService, changeService),
		KB:            kb.NewHandler(base, kbService),
		Confirmations: resource.NewConfirmationHandler(base, rdeps.Confirmations),
		Stats:         stats.NewHandler(base, statsService),
		Audit:         audit.NewHandler(base, auditService),
		Updates:       sysupdate.NewHandler(base, deps.Updates),
		Monitoring:    monitoring.NewHandler(base, deps.Metrics),
		Realtime:      deps.Hub,
	}, opts, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(logger.Options{
		Env:    config.Env,
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	db, err := initDB(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := openGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	catalog, err := sysupdate.LoadCatalog()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dashboard, err := monitoring.LoadDashboard()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	base := transport.NewBaseHandler(lg)
	return &Dependencies{
		Config:  config,
		Logger:  lg,
		DB:      db,
		Gorm:    gdb,
		Router:  chi.NewRouter(),
		Bus:     events.NewEventBus(lg),
		Hub:     realtime.NewHub(base, config.Realtime, config.Server.Origins()),
		Updates: sysupdate.NewService(catalog, config.Simulation, lg),
		Metrics: monitoring.NewService(dashboard, config.Simulation, lg),
	}, nil
}

const driverName = "pgx"

// initDB connects with exponential backoff so the server can start before
// the database container is ready.
func initDB(cfg internal.DatabaseConfig, lg *slog.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	err := backoff.RetryNotify(func() error {
		conn, err := sqlx.Connect(driverName, cfg.Source)
		if err != nil {
			return err
		}
		db = conn
		return nil
	}, backoff.WithMaxRetries(bo, cfg.ConnectRetries), func(err error, wait time.Duration) {
		lg.Warn("database not ready, retrying", "error", err, "wait", wait)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// openGorm shares the pool of db with the repositories.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}
