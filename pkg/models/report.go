package models

// Status classifies a metric value against its ideal range.
type Status string

const (
	StatusLow  Status = "Low"
	StatusGood Status = "Good"
	StatusHigh Status = "High"
)

// MetricResult wraps a single quality metric with its ideal range,
// classification and a human-readable message.
type MetricResult struct {
	Value   float64    `json:"value"`
	Range   [2]float64 `json:"range"`
	Status  Status     `json:"status"`
	Message string     `json:"message"`
}

// PrintSize is a print dimension in inches at a given DPI.
type PrintSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	DPI    int     `json:"dpi"`
}

// PrintSizeRounded is PrintSize with dimensions floored to whole inches.
type PrintSizeRounded struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	DPI    int `json:"dpi"`
}

// MaxPrintSize carries both the precise and the floor-rounded print size.
type MaxPrintSize struct {
	Precise     PrintSize        `json:"precise"`
	RoundedDown PrintSizeRounded `json:"rounded_down"`
}

// PixelSize is a dimension pair in pixels.
type PixelSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropSuggestion recommends a crop to the closest common aspect ratio.
type CropSuggestion struct {
	RecommendedCropSizePx PixelSize `json:"recommended_crop_size_px"`
	MaxPrintSizeInch      PrintSize `json:"max_print_size_inch"`
	Prompt                string    `json:"prompt"`
}

// Remedies maps each flaw category to a static improvement suggestion.
// The full mapping is always included in a report, regardless of which
// flaws actually fired.
type Remedies struct {
	Blur       string `json:"blur"`
	Noise      string `json:"noise"`
	Brightness string `json:"brightness"`
	Contrast   string `json:"contrast"`
	DustSpots  string `json:"dust_spots"`
}

// AnalysisReport is the complete print-quality diagnostic for one image.
// It is assembled once per request and never mutated afterwards.
type AnalysisReport struct {
	Filename string `json:"filename"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`

	AspectRatioDecimal float64 `json:"aspect_ratio_decimal"`
	AspectRatioSimple  string  `json:"aspect_ratio_simple"`

	MaxPrintSizeInch MaxPrintSize `json:"max_print_size_inch"`

	BlurVariance MetricResult `json:"blur_variance"`
	NoiseLevel   MetricResult `json:"noise_level"`
	Brightness   MetricResult `json:"brightness"`
	Contrast     MetricResult `json:"contrast"`

	DominantColor string `json:"dominant_color"`
	ColorProfile  string `json:"color_profile"`

	ClosestCommonAspectRatio string         `json:"closest_common_aspect_ratio"`
	CropSuggestion           CropSuggestion `json:"crop_suggestion"`

	FlawsDetected         []string `json:"flaws_detected"`
	SuggestedImprovements Remedies `json:"suggested_improvements"`
	Explanation           string   `json:"explanation"`
	Message               string   `json:"message"`
}

// ErrorResponse is the error envelope returned on request-level failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
