package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"go-print-advisor/internal/config"
	apperrors "go-print-advisor/internal/errors"
	"go-print-advisor/internal/logger"
	"go-print-advisor/internal/service"
	"go-print-advisor/pkg/models"
)

// URLAnalysisRequest is the JSON body of POST /analyze/url.
type URLAnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func validateImageURL(imageURL string) error {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	return nil
}

// NewHandler builds the HTTP surface: upload and URL analysis, health and
// root endpoints, wrapped with CORS and a request size limit.
func NewHandler(svc service.AnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	// The body limiter sits above the upload limit so multipart boundaries
	// and part headers don't eat into it; the per-file limit is enforced in
	// analyzeUpload, where it can answer with 413.
	r.Use(
		requestSizeLimiter(cfg.MaxUploadSize+multipartOverhead),
		requestIDMiddleware(),
	)

	r.GET("/", rootMessage)
	r.GET("/health", healthCheck)
	r.POST("/analyze", analyzeUpload(svc, cfg))
	r.POST("/analyze/url", analyzeURL(svc, cfg))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsHandler.Handler(r)
}

func analyzeUpload(svc service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := c.GetString("request_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.AnalysisTimeout)
		defer cancel()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			if isBodyTooLarge(err) {
				respondError(c, http.StatusRequestEntityTooLarge, "image upload too large", nil)
				return
			}
			respondError(c, http.StatusBadRequest, "missing image file upload", err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable image file upload", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, cfg.MaxUploadSize+1))
		if err != nil {
			if isBodyTooLarge(err) {
				respondError(c, http.StatusRequestEntityTooLarge, "image upload too large", nil)
				return
			}
			respondError(c, http.StatusBadRequest, "failed to read image upload", err)
			return
		}
		if int64(len(data)) > cfg.MaxUploadSize {
			respondError(c, http.StatusRequestEntityTooLarge, "image upload too large", nil)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   fileHeader.Filename,
			"bytes":      len(data),
			"ip":         c.ClientIP(),
		}).Info("Processing image analysis request")

		report, err := svc.AnalyzeUpload(ctx, requestID, fileHeader.Filename, data)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "image analysis failed", err)
			return
		}

		logCompleted(requestID, report, startTime)
		c.JSON(http.StatusOK, report)
	}
}

func analyzeURL(svc service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := c.GetString("request_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req URLAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := validateImageURL(req.URL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        req.URL,
			"ip":         c.ClientIP(),
		}).Info("Processing image analysis request")

		report, err := svc.AnalyzeURL(ctx, requestID, req.URL)
		if err != nil {
			respondError(c, determineStatusCode(err), "image analysis failed", err)
			return
		}

		logCompleted(requestID, report, startTime)
		c.JSON(http.StatusOK, report)
	}
}

func rootMessage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Print quality advisor API is running.",
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logCompleted(requestID string, report *models.AnalysisReport, startTime time.Time) {
	logger.WithFields(logrus.Fields{
		"request_id":         requestID,
		"filename":           report.Filename,
		"width_px":           report.WidthPx,
		"height_px":          report.HeightPx,
		"flaws":              len(report.FlawsDetected),
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Image analysis completed successfully")
}

// multipartOverhead is headroom for multipart boundaries and part headers
// around a maximum-size file.
const multipartOverhead = 16 << 10

// isBodyTooLarge reports whether the error came from the request body
// exceeding the MaxBytesReader limit.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("request_id", uuid.NewString())
		c.Next()
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	resp := models.ErrorResponse{Error: http.StatusText(code), Message: message}
	if err != nil {
		resp.Message = fmt.Sprintf("%s: %v", message, err)
	}
	c.AbortWithStatusJSON(code, resp)
}
