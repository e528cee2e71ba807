package models

import (
	"time"
)

// Report statuses. Resolved is written by external moderation tooling;
// this service only ever creates Pending reports and filters on status.
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

type Report struct {
	ID          int64     `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	Image       *string   `json:"image"`
	Notify      bool      `json:"notify"`
	Timestamp   time.Time `json:"timestamp"`
}

// SubmitReportRequest is the POST /api/report payload. Lat and Lng are
// pointers so a missing coordinate is distinguishable from 0.
type SubmitReportRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	UserID      string   `json:"userId"`
	Image       string   `json:"image"`
	Notify      bool     `json:"notify"`
}

type SubmitReportResponse struct {
	Status   string `json:"status"`
	ReportID int64  `json:"report_id"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ViewPort struct {
	LatMin float64 `json:"latmin"`
	LonMin float64 `json:"lonmin"`
	LatMax float64 `json:"latmax"`
	LonMax float64 `json:"lonmax"`
}

type MapResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}
