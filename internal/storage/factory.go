package storage

import (
	"fmt"

	"go-print-advisor/internal/config"
)

// NewFetcher builds the ImageFetcher selected by the configured storage
// backend.
func NewFetcher(cfg *config.Config) (ImageFetcher, error) {
	switch cfg.Storage {
	case config.StorageHTTP:
		return NewHTTPImageFetcher(cfg.FetchTimeout, cfg.MaxUploadSize), nil
	case config.StorageAzure:
		return NewAzureFetcher(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.MaxUploadSize)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage)
	}
}
