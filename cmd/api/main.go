package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/config"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	appHTTP "github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/cron"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/memory"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/overtime-ledger-go/internal/service/auth"
	serviceOvertime "github.com/cmlabs-hris/overtime-ledger-go/internal/service/overtime"
	serviceWorker "github.com/cmlabs-hris/overtime-ledger-go/internal/service/worker"
	"golang.org/x/time/rate"
)

type repositories struct {
	txm       overtime.Transactor
	users     user.UserRepository
	workers   worker.WorkerRepository
	entries   overtime.WorkEntryRepository
	summaries overtime.SummaryRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := appHTTP.NewLogger(cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(repos.users, JWTService)
	workerService := serviceWorker.NewWorkerService(repos.workers, repos.summaries)
	ledgerService := serviceOvertime.NewLedgerService(repos.txm, repos.entries, repos.summaries, repos.workers)

	scheduler := cron.NewScheduler()
	cron.NewLedgerJobs(ledgerService, cfg.Audit.Repair).RegisterJobs(scheduler, cfg.Audit.Interval)
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimit:  rate.Limit(cfg.App.AuthRateLimit),
		AuthRateBurst:  cfg.App.AuthRateBurst,
	}, JWTService, appHTTP.Handlers{
		Auth:     appHTTP.NewAuthHandler(authService),
		Worker:   appHTTP.NewWorkerHandler(workerService),
		Worklog:  appHTTP.NewWorklogHandler(ledgerService),
		Overtime: appHTTP.NewOvertimeHandler(ledgerService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
	slog.Info("Server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			txm:       store,
			users:     memory.NewUserRepository(store),
			workers:   memory.NewWorkerRepository(store),
			entries:   memory.NewWorkEntryRepository(store),
			summaries: memory.NewSummaryRepository(store),
			close:     func() {},
		}, nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return &repositories{
			txm:       postgresql.NewTransactor(db),
			users:     postgresql.NewUserRepository(db),
			workers:   postgresql.NewWorkerRepository(db),
			entries:   postgresql.NewWorkEntryRepository(db),
			summaries: postgresql.NewSummaryRepository(db),
			close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
