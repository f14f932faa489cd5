package analyzer

import "go-print-advisor/pkg/models"

// ImageAnalyzer turns a decoded pixel buffer into a print-quality report.
// Implementations are stateless and safe for concurrent use.
type ImageAnalyzer interface {
	Analyze(pb *PixelBuffer, filename string) models.AnalysisReport
	AnalyzeWithOptions(pb *PixelBuffer, filename string, opts Options) models.AnalysisReport
}
