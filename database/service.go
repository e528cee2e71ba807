package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"report-service/models"

	"github.com/apex/log"
)

// Submission rejections. Handlers map these to 400 responses with the
// legacy error strings.
var (
	ErrOutOfServiceArea = errors.New("Location outside service area")
	ErrDuplicateReport  = errors.New("Duplicate report")
)

type ReportsService struct {
	db *sql.DB
}

func NewReportsService(db *sql.DB) *ReportsService {
	return &ReportsService{db: db}
}

// ValidateSubmission applies the geofence and duplicate rules to a new
// submission. It must pass before anything is persisted, so a rejected
// submission never leaves a report row or an attachment behind.
func (s *ReportsService) ValidateSubmission(ctx context.Context, lat, lng float64, reportType string) error {
	if !InServiceArea(lat, lng) {
		return ErrOutOfServiceArea
	}

	dup, err := s.HasNearbyReport(ctx, lat, lng, reportType)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicateReport
	}
	return nil
}

// HasNearbyReport scans existing reports of the same type, regardless of
// status, for one within the duplicate radius. Linear in the number of
// same-type reports; fine at this service's scale.
func (s *ReportsService) HasNearbyReport(ctx context.Context, lat, lng float64, reportType string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT lat, lng FROM reports WHERE type = ?`, reportType)
	if err != nil {
		log.Errorf("Could not scan reports for duplicates: %v", err)
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var rLat, rLng float64
		if err := rows.Scan(&rLat, &rLng); err != nil {
			return false, err
		}
		if PlanarDistanceMeters(rLat, rLng, lat, lng) < DuplicateRadiusMeters {
			return true, nil
		}
	}
	return false, rows.Err()
}

// CreateReport inserts a new report and returns its assigned id. Ids come
// from AUTO_INCREMENT, so concurrent creates never collide and ids are
// never reused. The row is durable once this returns.
func (s *ReportsService) CreateReport(ctx context.Context, r *models.Report) (int64, error) {
	log.Infof("Write: saving report from user %s at %f,%f", r.UserID, r.Lat, r.Lng)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT
	  INTO reports (lat, lng, type, description, status, user_id, image, notify)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Lat, r.Lng, r.Type, r.Description, r.Status, r.UserID, r.Image, r.Notify)
	if err != nil {
		log.Errorf("Failed to insert report: %v", err)
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted report id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	log.Infof("Inserted report with id %d", id)
	return id, nil
}

// ListActive returns all reports not yet resolved, newest first.
func (s *ReportsService) ListActive(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
	  SELECT id, lat, lng, type, description, status, user_id, image, notify, created_at
	  FROM reports
	  WHERE status != ?
	  ORDER BY created_at DESC, id DESC`, models.StatusResolved)
	if err != nil {
		log.Errorf("Could not retrieve active reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// ListByUser returns all reports submitted under the given user id, newest
// first. The match is exact; an unknown id yields an empty slice, not an
// error.
func (s *ReportsService) ListByUser(ctx context.Context, userID string) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
	  SELECT id, lat, lng, type, description, status, user_id, image, notify, created_at
	  FROM reports
	  WHERE user_id = ?
	  ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		log.Errorf("Could not retrieve reports for user %q: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// GetReportLocations returns the coordinates of active reports inside the
// viewport, for map aggregation.
func (s *ReportsService) GetReportLocations(ctx context.Context, vp *models.ViewPort) ([]models.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
	  SELECT lat, lng
	  FROM reports
	  WHERE status != ?
	    AND lat > ? AND lng > ?
	    AND lat <= ? AND lng <= ?`,
		models.StatusResolved, vp.LatMin, vp.LonMin, vp.LatMax, vp.LonMax)
	if err != nil {
		log.Errorf("Could not retrieve report locations: %v", err)
		return nil, err
	}
	defer rows.Close()

	points := make([]models.Point, 0, 100)
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func scanReports(rows *sql.Rows) ([]models.Report, error) {
	reports := []models.Report{}
	for rows.Next() {
		var r models.Report
		var image sql.NullString
		if err := rows.Scan(&r.ID, &r.Lat, &r.Lng, &r.Type, &r.Description,
			&r.Status, &r.UserID, &image, &r.Notify, &r.Timestamp); err != nil {
			log.Errorf("Cannot scan a report row: %v", err)
			return nil, err
		}
		if image.Valid {
			r.Image = &image.String
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
