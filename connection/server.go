package connection

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todochat/config"
	"todochat/controller/chat"
	"todochat/controller/health"
	"todochat/controller/task"
	"todochat/middleware"
	"todochat/repository"
	"todochat/services"
)

const shutdownTimeout = 15 * time.Second

// Dependencies are the components the HTTP surface is built from.
type Dependencies struct {
	Config      *config.Config
	TaskService *services.TaskService
	ChatRelay   *services.ChatRelay
	Logger      *log.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.Default())

	health.HealthController(router, deps.Config.Store)
	task.TaskController(router, deps.TaskService)
	chat.ChatController(router, deps.ChatRelay)

	return router
}

// StartServer opens the task store, serves the API on cfg.Addr and shuts
// down gracefully when ctx is cancelled. In-flight enhancement
// notifications are drained before the store is closed.
func StartServer(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	repo, closeStore, err := OpenTaskStore(ctx, cfg.Store, logger)
	if err != nil {
		// Keep serving: every task call reports the configuration error.
		logger.Error("task store unavailable", "err", err)
		repo = repository.Unavailable(err)
		closeStore = func() {}
	}
	defer closeStore()

	httpClient := &http.Client{}
	notifier := services.NewEnhancementNotifier(cfg.Enhance, httpClient, cfg.WebhookTimeout, logger)
	defer notifier.Wait()

	router := NewRouter(Dependencies{
		Config:      cfg,
		TaskService: services.NewTaskService(repo, notifier),
		ChatRelay:   services.NewChatRelay(cfg.Chat, httpClient),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
