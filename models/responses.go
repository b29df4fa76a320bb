// path: models/responses.go
package models

// ReportItem is the JSON shape the browser client consumes.
type ReportItem struct {
	ID          uint64  `json:"id"`
	OriginalID  int64   `json:"originalId"`
	Reporter    string  `json:"reporter"`
	ReporterID  string  `json:"reporterId,omitempty"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	PhotoPath   string  `json:"photoPath"`
	Location    *LatLng `json:"location"`
	CreatedAt   string  `json:"createdAt"`
}

type CreateReportResp struct {
	OK     bool        `json:"ok"`
	Report *ReportItem `json:"report,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type DeleteReportResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
