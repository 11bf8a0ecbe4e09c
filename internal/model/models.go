package model

// AggregationRequest is the body of POST /aggregate/{id}. Empty selections
// and missing operations are reported by the plan builder, which names every
// offending column; validation only rejects blank names.
type AggregationRequest struct {
	AggColumns   []string          `json:"agg_columns" validate:"dive,required"`
	GroupColumns []string          `json:"group_columns" validate:"dive,required"`
	Operations   map[string]string `json:"operations"`
}

// PastedTable is the body of POST /process-table, produced by the paste flow
// of the front end: a header list plus one object per row keyed by header.
type PastedTable struct {
	Headers []string                 `json:"headers" validate:"required,min=1,unique,dive,required"`
	Data    []map[string]interface{} `json:"data"`
}

// UploadResponse is returned by /upload and /process-table
type UploadResponse struct {
	Columns  []string `json:"columns"`
	Filename string   `json:"filename"`
	UploadID string   `json:"upload_id"`
}

// ColumnsResponse is returned by GET /uploads/{id}/columns
type ColumnsResponse struct {
	UploadID string   `json:"upload_id"`
	Columns  []string `json:"columns"`
}

// AggregateResponse is returned by POST /aggregate/{id}?format=json
type AggregateResponse struct {
	UploadID   string    `json:"upload_id"`
	Headers    []string  `json:"headers"`
	Rows       [][]Value `json:"rows"`
	Operations []string  `json:"operations"`
}
