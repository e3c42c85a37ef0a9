package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"nggo/internal/bootstrap"
	viewerDelivery "nggo/internal/delivery/viewer"
	ownMiddleware "nggo/internal/middleware"
	repo "nggo/internal/repository"
	vieweruc "nggo/internal/usecase/viewer"
)

type mainDeliveryHandler struct {
	viewer *viewerDelivery.ViewerHandler
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Fatalw("Failed to setup configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger)
	handlers.Router(r, cfg.IsLocalCors)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Failed to shut down server", "error", err)
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", "error", err)
	}
	logger.Info("Server stopped")
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.viewer.Routes(r)
}

func initializeDeliveryHandlers(cfg bootstrap.Config, log *zap.SugaredLogger) *mainDeliveryHandler {
	sessions := repo.NewSessionMapStorage(cfg.MaxSessions, log)
	viewerUseCase := vieweruc.NewViewerUseCase(sessions, cfg.EngineConfig(), log)

	return &mainDeliveryHandler{
		viewer: viewerDelivery.NewViewerHandler(cfg, log, viewerUseCase),
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
