package model

import "time"

// RecordsExport is the top-level JSON structure for the export command.
type RecordsExport struct {
	School      string         `json:"school"`
	GeneratedAt time.Time      `json:"generated_at"`
	Filter      RecordFilter   `json:"filter"`
	Records     []RecordExport `json:"records"`
}

// RecordExport holds one stored assessment for export.
type RecordExport struct {
	Ref         string           `json:"ref"`
	Stage       string           `json:"stage"`
	Subject     Subject          `json:"subject"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Overall     *float64         `json:"overall"`
	Dimensions  []DimensionScore `json:"dimensions"`
	Responses   []ResponseExport `json:"responses"`
	Report      string           `json:"report"`
	Suggestions string           `json:"suggestions"`
}

// ResponseExport is a response with its scale label resolved.
type ResponseExport struct {
	Response
	Label string `json:"label"`
}

// GroupMean is one row of a consolidated view (per class, per evaluator,
// per dimension). Mean is nil when no group member carried a value.
type GroupMean struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
}
