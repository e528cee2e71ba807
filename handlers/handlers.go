package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"report-service/database"
	"report-service/models"
	"report-service/storage"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	reportsService *database.ReportsService
	attachments    *storage.Attachments
}

func NewReportsHandler(reportsService *database.ReportsService, attachments *storage.Attachments) *ReportsHandler {
	return &ReportsHandler{
		reportsService: reportsService,
		attachments:    attachments,
	}
}

// HealthCheck returns a simple health status
func (h *ReportsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "report-service",
	})
}

// SubmitReport handles POST /api/report: validates the submission, stores
// the attachment if one was sent, and persists the report.
//
// Missing or malformed fields are a 400 here. The historical behavior was a
// 500 for anything the handler could not digest; that was a defect, not a
// contract.
func (h *ReportsHandler) SubmitReport(c *gin.Context) {
	var req models.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorf("Failed to get the argument in /api/report call: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read JSON input"})
		return
	}

	if req.Lat == nil || req.Lng == nil || req.Type == "" || req.Description == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lng, type, description and userId are required"})
		return
	}
	lat, lng := *req.Lat, *req.Lng

	// All validation happens before anything is persisted, so a rejected
	// submission leaves no report row and no attachment behind.
	if err := h.reportsService.ValidateSubmission(c.Request.Context(), lat, lng, req.Type); err != nil {
		if errors.Is(err, database.ErrOutOfServiceArea) || errors.Is(err, database.ErrDuplicateReport) {
			log.Infof("Rejected report from user %s: %v", req.UserID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("Failed to validate report submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save the report"})
		return
	}

	var image *string
	if req.Image != "" {
		filename, err := h.attachments.Put(decodeImage(req.Image))
		if err != nil {
			log.Errorf("Failed to store attachment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save the image"})
			return
		}
		image = &filename
	}

	report := &models.Report{
		Lat:         lat,
		Lng:         lng,
		Type:        req.Type,
		Description: req.Description,
		Status:      models.StatusPending,
		UserID:      req.UserID,
		Image:       image,
		Notify:      req.Notify,
	}

	id, err := h.reportsService.CreateReport(c.Request.Context(), report)
	if err != nil {
		if image != nil {
			h.attachments.Remove(*image)
		}
		log.Errorf("Failed to save report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save the report"})
		return
	}

	c.JSON(http.StatusOK, models.SubmitReportResponse{
		Status:   "success",
		ReportID: id,
	})
}

// GetReports handles GET /api/reports: all reports not yet resolved.
func (h *ReportsHandler) GetReports(c *gin.Context) {
	reports, err := h.reportsService.ListActive(c.Request.Context())
	if err != nil {
		log.Errorf("Error listing active reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetUserReports handles GET /api/user_reports?userId=X. An unknown user
// gets an empty array, not an error.
func (h *ReportsHandler) GetUserReports(c *gin.Context) {
	userID, ok := c.GetQuery("userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	reports, err := h.reportsService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("Error listing reports for user %q: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetUpload handles GET /uploads/:filename, serving raw attachment bytes.
// There is no ownership check; the filename is the only key.
func (h *ReportsHandler) GetUpload(c *gin.Context) {
	data, err := h.attachments.Get(c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}
		log.Errorf("Failed to read attachment %q: %v", c.Param("filename"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read the attachment"})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// decodeImage turns the transport encoding of an image payload into raw
// bytes. Clients send either a data URL, bare base64, or the bytes as-is;
// an undecodable payload is stored verbatim, matching the historical
// pass-through behavior.
func decodeImage(payload string) []byte {
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	if b, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return b
	}
	return []byte(payload)
}
