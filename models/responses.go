package models

// Wire types mirror the backend's JSON bodies field-for-field. Every
// failure body is normalized by the client package before it reaches
// callers; these structs only describe what the server sends.

type SendPackageResponse struct {
	Success  bool     `json:"success"`
	Filename string   `json:"filename,omitempty"`
	Error    string   `json:"error,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

type SendRawResponse struct {
	Success   bool     `json:"success"`
	SentCount int      `json:"sent_count,omitempty"`
	Error     string   `json:"error,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

type ConvertResponse struct {
	Success          bool   `json:"success"`
	GCode            string `json:"gcode,omitempty"`
	LineCount        int    `json:"line_count,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`
	Error            string `json:"error,omitempty"`
}

type ValidateResponse struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	LineCount int      `json:"line_count"`
}

type FormatResponse struct {
	Success   bool   `json:"success"`
	Formatted string `json:"formatted,omitempty"`
	Error     string `json:"error,omitempty"`
}
