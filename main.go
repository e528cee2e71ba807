package main

import (
	"fmt"
	"strconv"

	"report-service/config"
	"report-service/database"
	"report-service/handlers"
	"report-service/storage"
	"report-service/version"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const (
	EndPointHealth      = "/health"
	EndPointVersion     = "/version"
	EndPointReport      = "/api/report"
	EndPointReports     = "/api/reports"
	EndPointUserReports = "/api/user_reports"
	EndPointMap         = "/api/map"
	EndPointServiceArea = "/api/service_area"
	EndPointUploads     = "/uploads/:filename"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Info("Starting the report service...")

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize database schema
	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize services
	reportsService := database.NewReportsService(db)

	attachments, err := storage.NewAttachments(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize attachment store: %v", err)
	}

	// Initialize handlers
	reportsHandler := handlers.NewReportsHandler(reportsService, attachments)

	// Setup router
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET(EndPointVersion, func(c *gin.Context) {
		c.JSON(200, version.Get("report-service"))
	})
	router.GET(EndPointHealth, reportsHandler.HealthCheck)

	router.POST(EndPointReport, reportsHandler.SubmitReport)
	router.GET(EndPointReports, reportsHandler.GetReports)
	router.GET(EndPointUserReports, reportsHandler.GetUserReports)
	router.GET(EndPointMap, reportsHandler.GetMap)
	router.GET(EndPointServiceArea, reportsHandler.GetServiceArea)
	router.GET(EndPointUploads, reportsHandler.GetUpload)

	// Get server port from config
	serverPort, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("Invalid PORT configuration: %v", err)
	}

	// Start server
	log.Infof("Report service starting on port %d", serverPort)
	if err := router.Run(fmt.Sprintf(":%d", serverPort)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
