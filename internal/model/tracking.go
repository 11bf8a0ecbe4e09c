package model

import "time"

// Upload is a stored source spreadsheet known to the upload registry
type Upload struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path"`
	Columns      []string  `json:"columns"`
	CreatedAt    time.Time `json:"created_at"`
}

// OutputFile is an aggregation result written next to its upload
type OutputFile struct {
	UploadID  string    `json:"upload_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// StageMetrics records how long one stage of a run took
type StageMetrics struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
	Rows     int           `json:"rows"`
}
