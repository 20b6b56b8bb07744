package model

// CutoutResult is the full outcome for one processed image.
type CutoutResult struct {
	MD5        string   `json:"md5"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Method     string   `json:"method"`
	Detail     string   `json:"detail,omitempty"`
	Removed    float64  `json:"removed"`
	Confidence float64  `json:"confidence"`
	Complexity string   `json:"complexity"`
	Palette    []string `json:"palette,omitempty"`
	Image      string   `json:"image"` // base64 PNG with alpha
	Timestamp  int64    `json:"timestamp"`
}

// UploadResponse wraps a successful processing result.
type UploadResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *CutoutResult `json:"data,omitempty"`
}

// ErrorResponse is the failure envelope for all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
