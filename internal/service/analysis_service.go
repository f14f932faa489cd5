package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"go-print-advisor/internal/analyzer"
	apperrors "go-print-advisor/internal/errors"
	"go-print-advisor/internal/observer"
	"go-print-advisor/internal/storage"
	"go-print-advisor/pkg/models"
)

// AnalysisService is the application boundary of the pipeline: it decodes
// image bytes, offloads the CPU-bound analysis to the worker pool and
// publishes lifecycle events.
type AnalysisService interface {
	// AnalyzeUpload analyzes image bytes received from a file upload.
	AnalyzeUpload(ctx context.Context, requestID, filename string, data []byte) (*models.AnalysisReport, error)

	// AnalyzeURL fetches image bytes from the configured storage backend and
	// analyzes them.
	AnalyzeURL(ctx context.Context, requestID, imageURL string) (*models.AnalysisReport, error)
}

type analysisService struct {
	fetcher  storage.ImageFetcher
	analyzer analyzer.ImageAnalyzer
	pool     *analyzer.WorkerPool
	events   observer.Subject
}

// NewAnalysisService wires the service from its collaborators.
func NewAnalysisService(
	fetcher storage.ImageFetcher,
	imageAnalyzer analyzer.ImageAnalyzer,
	pool *analyzer.WorkerPool,
	events observer.Subject,
) AnalysisService {
	return &analysisService{
		fetcher:  fetcher,
		analyzer: imageAnalyzer,
		pool:     pool,
		events:   events,
	}
}

func (s *analysisService) AnalyzeUpload(ctx context.Context, requestID, filename string, data []byte) (*models.AnalysisReport, error) {
	return s.analyze(ctx, requestID, filename, data)
}

func (s *analysisService) AnalyzeURL(ctx context.Context, requestID, imageURL string) (*models.AnalysisReport, error) {
	data, err := s.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.NewTimeoutError("image fetch timeout", err)
		} else {
			err = apperrors.NewNetworkError("failed to fetch image", err)
		}
		s.publish(ctx, failedEvent(requestID, imageURL, err))
		return nil, err
	}
	return s.analyze(ctx, requestID, filenameFromURL(imageURL), data)
}

func (s *analysisService) analyze(ctx context.Context, requestID, filename string, data []byte) (*models.AnalysisReport, error) {
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: start,
		RequestID: requestID,
		Filename:  filename,
	})

	decoded, err := storage.DecodeImage(data)
	if err != nil {
		decodeErr := apperrors.NewDecodeError("image bytes could not be decoded", err)
		s.publish(ctx, failedEvent(requestID, filename, decodeErr))
		return nil, decodeErr
	}

	pb := analyzer.NewPixelBuffer(decoded.Image, decoded.ICCProfile)

	// The pipeline is pure CPU work; run it on the bounded pool so a single
	// large image cannot monopolize the server. Cancellation abandons the
	// in-flight computation; there are no partial effects to undo.
	var report models.AnalysisReport
	var panicErr error
	done := make(chan struct{})
	submitted := s.pool.Submit(func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("analysis panic: %v", r)
			}
		}()
		report = s.analyzer.Analyze(pb, filename)
	})
	if !submitted {
		err := apperrors.NewInternalError("analysis pool is shut down", nil)
		s.publish(ctx, failedEvent(requestID, filename, err))
		return nil, err
	}

	select {
	case <-ctx.Done():
		err := apperrors.NewTimeoutError("analysis abandoned", ctx.Err())
		s.publish(ctx, failedEvent(requestID, filename, err))
		return nil, err
	case <-done:
	}

	if panicErr != nil {
		err := apperrors.NewInternalError("unexpected analysis failure", panicErr)
		s.publish(ctx, failedEvent(requestID, filename, err))
		return nil, err
	}

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		RequestID:      requestID,
		Filename:       filename,
		ProcessingTime: time.Since(start),
		FlawCount:      len(report.FlawsDetected),
		Success:        true,
	})
	return &report, nil
}

func (s *analysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func failedEvent(requestID, filename string, err error) observer.AnalysisEvent {
	return observer.AnalysisEvent{
		EventType:    observer.AnalysisFailed,
		Timestamp:    time.Now(),
		RequestID:    requestID,
		Filename:     filename,
		ErrorMessage: err.Error(),
	}
}

// filenameFromURL derives a report filename from the fetched URL's path.
func filenameFromURL(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return imageURL
	}
	return path.Base(parsed.Path)
}
