package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"report-service/models"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// GetMap handles GET /api/map?sw_lat=&sw_lon=&ne_lat=&ne_lon=, returning
// active report locations clustered for the requested viewport.
func (h *ReportsHandler) GetMap(c *gin.Context) {
	vp, err := viewportFromQuery(c)
	if err != nil {
		log.Errorf("Error in /api/map viewport params: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := h.reportsService.GetReportLocations(c.Request.Context(), vp)
	if err != nil {
		log.Errorf("Error getting report locations for viewport %v: %v", vp, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load map data"})
		return
	}

	center := &models.Point{
		Lat: (vp.LatMin + vp.LatMax) / 2,
		Lng: (vp.LonMin + vp.LonMax) / 2,
	}
	aggr := newMapAggregator(vp, center)
	for _, p := range points {
		aggr.AddPoint(p.Lat, p.Lng)
	}

	c.IndentedJSON(http.StatusOK, aggr.ToArray())
}

func viewportFromQuery(c *gin.Context) (*models.ViewPort, error) {
	vp := &models.ViewPort{}
	var err error

	if vp.LatMin, err = queryFloat(c, "sw_lat"); err != nil {
		return nil, err
	}
	if vp.LonMin, err = queryFloat(c, "sw_lon"); err != nil {
		return nil, err
	}
	if vp.LatMax, err = queryFloat(c, "ne_lat"); err != nil {
		return nil, err
	}
	if vp.LonMax, err = queryFloat(c, "ne_lon"); err != nil {
		return nil, err
	}

	if vp.LatMin >= vp.LatMax || vp.LonMin >= vp.LonMax {
		return nil, fmt.Errorf("viewport corners are inverted")
	}
	return vp, nil
}

func queryFloat(c *gin.Context, name string) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %v", name, err)
	}
	return v, nil
}
