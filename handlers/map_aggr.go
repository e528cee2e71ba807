package handlers

import (
	"report-service/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

type aggrUnit struct {
	cnt      int64
	origCell s2.CellID
}

// mapAggregator buckets report locations into s2 cells whose level is
// picked from the viewport size, so a zoomed-out map gets coarse clusters
// and a zoomed-in map gets individual reports.
type mapAggregator struct {
	level int
	aggrs map[s2.CellID]*aggrUnit
}

const (
	expectedCells = 160
	minLevel      = 6
	maxLevel      = 16
)

func cellBaseLevel(vp *models.ViewPort, center *models.Point) int {
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)

	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: minLL.Lat.Radians(),
			Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{
			Lo: minLL.Lng.Radians(),
			Hi: maxLL.Lng.Radians()},
	}

	vpArea := rect.Area()

	centerLL := s2.CellIDFromLatLng(s2.LatLngFromDegrees(center.Lat, center.Lng))

	for lv := maxLevel; lv >= minLevel; lv-- {
		cc := s2.CellFromCellID(centerLL.Parent(lv))
		if vpArea/cc.ApproxArea() < expectedCells {
			return lv
		}
	}
	return minLevel // Large enough level
}

func newMapAggregator(vp *models.ViewPort, center *models.Point) mapAggregator {
	lv := cellBaseLevel(vp, center)
	return mapAggregator{
		level: lv,
		aggrs: make(map[s2.CellID]*aggrUnit),
	}
}

func (a *mapAggregator) AddPoint(lat, lng float64) {
	pc := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	parent := pc.Parent(a.level)
	if _, ok := a.aggrs[parent]; !ok {
		a.aggrs[parent] = &aggrUnit{}
	}
	a.aggrs[parent].cnt += 1
	a.aggrs[parent].origCell = pc
}

func (a *mapAggregator) ToArray() []models.MapResult {
	r := make([]models.MapResult, 0, len(a.aggrs))
	for c, unit := range a.aggrs {
		ll := c.LatLng()
		if unit.cnt == 1 {
			// Singleton clusters keep the exact report location.
			ll = unit.origCell.LatLng()
		}
		r = append(r, models.MapResult{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     unit.cnt,
		})
	}
	return r
}
