package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"report-service/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
)

var (
	db      *sql.DB
	mock    sqlmock.Sqlmock
	service *ReportsService
)

func setUp() {
	db, mock, _ = sqlmock.New()
	service = NewReportsService(db)
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

const (
	duplicateScanQuery = "SELECT lat, lng FROM reports WHERE type = ?"
	insertReportQuery  = "INSERT INTO reports (lat, lng, type, description, status, user_id, image, notify) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	listActiveQuery    = "SELECT id, lat, lng, type, description, status, user_id, image, notify, created_at FROM reports WHERE status != ? ORDER BY created_at DESC, id DESC"
	listByUserQuery    = "SELECT id, lat, lng, type, description, status, user_id, image, notify, created_at FROM reports WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	locationsQuery     = "SELECT lat, lng FROM reports WHERE status != ? AND lat > ? AND lng > ? AND lat <= ? AND lng <= ?"
)

func TestValidateSubmission(t *testing.T) {
	it(func() {
		testCases := []struct {
			name       string
			lat        float64
			lng        float64
			reportType string

			scanExpected bool
			existing     [][2]float64

			expectedErr error
		}{
			{
				name:       "Outside service area, no scan performed",
				lat:        45.0,
				lng:        -79.38,
				reportType: "pothole",

				scanExpected: false,

				expectedErr: ErrOutOfServiceArea,
			},
			{
				name:       "No existing reports",
				lat:        43.65,
				lng:        -79.38,
				reportType: "pothole",

				scanExpected: true,
				existing:     nil,

				expectedErr: nil,
			},
			{
				name:       "Same type within 200 meters",
				lat:        43.65,
				lng:        -79.38,
				reportType: "pothole",

				scanExpected: true,
				existing:     [][2]float64{{43.651, -79.38}},

				expectedErr: ErrDuplicateReport,
			},
			{
				name:       "Same type but far away",
				lat:        43.65,
				lng:        -79.38,
				reportType: "pothole",

				scanExpected: true,
				existing:     [][2]float64{{43.70, -79.38}},

				expectedErr: nil,
			},
		}

		for _, testCase := range testCases {
			if testCase.scanExpected {
				rows := sqlmock.NewRows([]string{"lat", "lng"})
				for _, e := range testCase.existing {
					rows.AddRow(e[0], e[1])
				}
				mock.ExpectQuery(regexp.QuoteMeta(duplicateScanQuery)).
					WithArgs(testCase.reportType).
					WillReturnRows(rows)
			}

			err := service.ValidateSubmission(context.Background(), testCase.lat, testCase.lng, testCase.reportType)
			if !errors.Is(err, testCase.expectedErr) {
				t.Errorf("%s: ValidateSubmission: expected error %v, got %v", testCase.name, testCase.expectedErr, err)
			}
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}

func TestCreateReport(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReportQuery)).
			WithArgs(43.65, -79.38, "pothole", "big hole", models.StatusPending, "u1", nil, false).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		id, err := service.CreateReport(context.Background(), &models.Report{
			Lat:         43.65,
			Lng:         -79.38,
			Type:        "pothole",
			Description: "big hole",
			Status:      models.StatusPending,
			UserID:      "u1",
		})
		if err != nil {
			t.Errorf("CreateReport: unexpected error: %v", err)
		}
		if id != 1 {
			t.Errorf("CreateReport: expected id 1, got %d", id)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet expectations: %v", err)
		}
	})
}

func TestCreateReportIdsAreMonotonic(t *testing.T) {
	it(func() {
		for i := int64(1); i <= 3; i++ {
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(insertReportQuery)).
				WillReturnResult(sqlmock.NewResult(i, 1))
			mock.ExpectCommit()
		}

		var lastID int64
		for i := 0; i < 3; i++ {
			id, err := service.CreateReport(context.Background(), &models.Report{
				Lat:         43.65,
				Lng:         -79.38,
				Type:        "pothole",
				Description: "big hole",
				Status:      models.StatusPending,
				UserID:      "u1",
			})
			if err != nil {
				t.Fatalf("CreateReport: unexpected error: %v", err)
			}
			if id <= lastID {
				t.Errorf("CreateReport: id %d not greater than previous %d", id, lastID)
			}
			lastID = id
		}
	})
}

func TestCreateReportInsertFails(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReportQuery)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := service.CreateReport(context.Background(), &models.Report{
			Lat:         43.65,
			Lng:         -79.38,
			Type:        "pothole",
			Description: "big hole",
			Status:      models.StatusPending,
			UserID:      "u1",
		})
		if err == nil {
			t.Error("CreateReport: expected error, got nil")
		}
	})
}

func reportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "lat", "lng", "type", "description", "status", "user_id", "image", "notify", "created_at",
	})
}

func TestListActive(t *testing.T) {
	it(func() {
		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(listActiveQuery)).
			WithArgs(models.StatusResolved).
			WillReturnRows(reportRows().
				AddRow(2, 43.66, -79.39, "streetlight", "light is out", models.StatusPending, "u2", "123_abc.jpg", true, ts).
				AddRow(1, 43.65, -79.38, "pothole", "big hole", models.StatusPending, "u1", nil, false, ts))

		reports, err := service.ListActive(context.Background())
		if err != nil {
			t.Fatalf("ListActive: unexpected error: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("ListActive: expected 2 reports, got %d", len(reports))
		}
		if reports[0].ID != 2 || reports[1].ID != 1 {
			t.Errorf("ListActive: expected newest-first order, got ids %d, %d", reports[0].ID, reports[1].ID)
		}
		if reports[0].Image == nil || *reports[0].Image != "123_abc.jpg" {
			t.Errorf("ListActive: expected image filename on report 2, got %v", reports[0].Image)
		}
		if reports[1].Image != nil {
			t.Errorf("ListActive: expected nil image on report 1, got %q", *reports[1].Image)
		}
		for _, r := range reports {
			if r.Status == models.StatusResolved {
				t.Errorf("ListActive: returned a resolved report %d", r.ID)
			}
		}
	})
}

func TestListByUser(t *testing.T) {
	it(func() {
		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(listByUserQuery)).
			WithArgs("u1").
			WillReturnRows(reportRows().
				AddRow(1, 43.65, -79.38, "pothole", "big hole", models.StatusPending, "u1", nil, false, ts))

		reports, err := service.ListByUser(context.Background(), "u1")
		if err != nil {
			t.Fatalf("ListByUser: unexpected error: %v", err)
		}
		if len(reports) != 1 || reports[0].UserID != "u1" {
			t.Errorf("ListByUser: expected exactly u1's report, got %v", reports)
		}

		// Unknown user gets an empty slice, not an error.
		mock.ExpectQuery(regexp.QuoteMeta(listByUserQuery)).
			WithArgs("nobody").
			WillReturnRows(reportRows())

		reports, err = service.ListByUser(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("ListByUser: unexpected error for unknown user: %v", err)
		}
		if reports == nil || len(reports) != 0 {
			t.Errorf("ListByUser: expected empty slice for unknown user, got %v", reports)
		}
	})
}

func TestGetReportLocations(t *testing.T) {
	it(func() {
		mock.ExpectQuery(regexp.QuoteMeta(locationsQuery)).
			WithArgs(models.StatusResolved, 43.6, -79.5, 43.7, -79.3).
			WillReturnRows(sqlmock.NewRows([]string{"lat", "lng"}).
				AddRow(43.65, -79.38).
				AddRow(43.66, -79.39))

		points, err := service.GetReportLocations(context.Background(), &models.ViewPort{
			LatMin: 43.6,
			LonMin: -79.5,
			LatMax: 43.7,
			LonMax: -79.3,
		})
		if err != nil {
			t.Fatalf("GetReportLocations: unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Errorf("GetReportLocations: expected 2 points, got %d", len(points))
		}
	})
}
