package models

import "time"

// Job actions, as recorded in history.
const (
	ActionSendPackage = "send-package"
	ActionSendRaw     = "send-raw"
	ActionDownload    = "download"
	ActionConvert     = "convert"
	ActionValidate    = "validate"
	ActionFormat      = "format"
)

// JobRecord is one dispatched backend action. Records are append-only
// history; they carry no controller state.
type JobRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Action    string    `json:"action" yaml:"action"`
	FileName  string    `json:"file_name" yaml:"file_name"`
	LineCount int       `json:"line_count" yaml:"line_count"`
	OK        bool      `json:"ok" yaml:"ok"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	When      time.Time `json:"when" yaml:"when"`
}

// RecentFile is a previously opened path, newest first in listings.
type RecentFile struct {
	Path     string    `json:"path" yaml:"path"`
	OpenedAt time.Time `json:"opened_at" yaml:"opened_at"`
}
