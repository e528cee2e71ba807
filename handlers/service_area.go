package handlers

import (
	"net/http"

	"report-service/database"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"
)

// GetServiceArea handles GET /api/service_area, returning the fixed
// service-area boundary as a GeoJSON polygon for map clients to draw.
func (h *ReportsHandler) GetServiceArea(c *gin.Context) {
	// GeoJSON positions are (lng, lat); the ring is closed.
	ring := [][]float64{
		{database.ServiceAreaLngMin, database.ServiceAreaLatMax}, // Northwest
		{database.ServiceAreaLngMin, database.ServiceAreaLatMin}, // Southwest
		{database.ServiceAreaLngMax, database.ServiceAreaLatMin}, // Southeast
		{database.ServiceAreaLngMax, database.ServiceAreaLatMax}, // Northeast
		{database.ServiceAreaLngMin, database.ServiceAreaLatMax},
	}

	feature := geojson.NewPolygonFeature([][][]float64{ring})
	feature.SetProperty("name", "service_area")

	c.JSON(http.StatusOK, feature)
}
