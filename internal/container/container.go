package container

import (
	"fmt"
	"net/http"

	"go-print-advisor/internal/analyzer"
	"go-print-advisor/internal/config"
	"go-print-advisor/internal/logger"
	"go-print-advisor/internal/observer"
	"go-print-advisor/internal/service"
	"go-print-advisor/internal/storage"
	"go-print-advisor/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	imageFetcher    storage.ImageFetcher
	imageAnalyzer   analyzer.ImageAnalyzer
	pool            *analyzer.WorkerPool
	analysisService service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	imageFetcher, err := storage.NewFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build image fetcher: %w", err)
	}

	pool := analyzer.NewWorkerPool(cfg.AnalysisWorkers)
	pool.Start()

	events := observer.NewEventBus()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))

	imageAnalyzer := analyzer.NewImageAnalyzer()
	analysisService := service.NewAnalysisService(imageFetcher, imageAnalyzer, pool, events)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:          cfg,
		imageFetcher:    imageFetcher,
		imageAnalyzer:   imageAnalyzer,
		pool:            pool,
		analysisService: analysisService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases pooled resources.
func (c *Container) Close() {
	c.pool.Close()
}
