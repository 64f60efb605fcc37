// backend/src/services/chart_service.go
package services

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/username/vendalytics/backend/src/models"
	"golang.org/x/image/font/basicfont"
)

// ChartService renders report data as images for the download endpoint.
type ChartService interface {
	RegionRevenueChart(metrics *models.RegionMetricsMap) ([]byte, error)
}

type chartServiceImpl struct {
	width  int
	height int
}

func NewChartService(width, height int) ChartService {
	return &chartServiceImpl{width: width, height: height}
}

// RegionRevenueChart draws a vertical bar chart of total revenue per region,
// one bar per key in the map's insertion order, and returns the encoded PNG.
func (s *chartServiceImpl) RegionRevenueChart(metrics *models.RegionMetricsMap) ([]byte, error) {
	const (
		marginLeft   = 60.0
		marginRight  = 20.0
		marginTop    = 50.0
		marginBottom = 60.0
	)

	dc := gg.NewContext(s.width, s.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored("Receita por Região", float64(s.width)/2, marginTop/2, 0.5, 0.5)

	keys := metrics.Keys()
	if len(keys) == 0 {
		dc.DrawStringAnchored("sem dados", float64(s.width)/2, float64(s.height)/2, 0.5, 0.5)
		return encodeChart(dc)
	}

	maxRevenue := 0.0
	for _, key := range keys {
		if m, ok := metrics.Get(key); ok && m.TotalRevenue > maxRevenue {
			maxRevenue = m.TotalRevenue
		}
	}
	if maxRevenue == 0 {
		maxRevenue = 1
	}

	plotWidth := float64(s.width) - marginLeft - marginRight
	plotHeight := float64(s.height) - marginTop - marginBottom
	baseline := marginTop + plotHeight

	// Eixos
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop, marginLeft, baseline)
	dc.DrawLine(marginLeft, baseline, marginLeft+plotWidth, baseline)
	dc.Stroke()

	slot := plotWidth / float64(len(keys))
	barWidth := slot * 0.6

	for i, key := range keys {
		m, ok := metrics.Get(key)
		if !ok {
			continue
		}
		barHeight := (m.TotalRevenue / maxRevenue) * plotHeight
		x := marginLeft + float64(i)*slot + (slot-barWidth)/2
		y := baseline - barHeight

		dc.SetRGB(0.18, 0.42, 0.69)
		dc.DrawRectangle(x, y, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", m.TotalRevenue), x+barWidth/2, y-10, 0.5, 0.5)
		dc.DrawStringAnchored(key, x+barWidth/2, baseline+15, 0.5, 0.5)
	}

	return encodeChart(dc)
}

func encodeChart(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("error encoding chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}
