// Package report renders the sentiment/price comparison as SVG charts,
// CSV exports and a console table.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 900)
	Height       int    // SVG height in pixels (default: 420)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 80)
	MarginBottom int    // bottom margin, room for rotated dates (default: 90)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title; each chart supplies its own when empty
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        900,
		Height:       420,
		MarginTop:    40,
		MarginRight:  80,
		MarginBottom: 90,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

const (
	sentimentColor = "#2196f3"
	priceColor     = "#ff9800"
)

// ════════════════════════════════════════════════════════════════════
// Sentiment vs Price
// ════════════════════════════════════════════════════════════════════

// ComparisonChart plots daily average sentiment (left axis, -1..+1) and
// closing price (right axis) over the shared date axis of rows. Missing
// values leave a gap in their line.
func ComparisonChart(entity string, rows []models.ComparisonRow, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = fmt.Sprintf("Sentiment vs %s Stock Price", entity)
	}
	if len(rows) == 0 {
		return emptySVG(cfg, "No data")
	}

	px, py, pw, ph := cfg.plotArea()
	n := len(rows)

	sentiment := make([]float64, n)
	closes := make([]float64, n)
	labels := make([]string, n)
	minP, maxP := math.MaxFloat64, -math.MaxFloat64
	for i, r := range rows {
		labels[i] = r.Date
		sentiment[i] = math.NaN()
		closes[i] = math.NaN()
		if r.AvgSentiment != nil {
			sentiment[i] = *r.AvgSentiment
		}
		if r.Close != nil {
			closes[i] = *r.Close
			minP = math.Min(minP, *r.Close)
			maxP = math.Max(maxP, *r.Close)
		}
	}
	hasPrice := minP <= maxP
	if hasPrice {
		pRange := maxP - minP
		if pRange < 0.01 {
			pRange = math.Max(math.Abs(maxP)*0.1, 1)
		}
		minP -= pRange * 0.05
		maxP += pRange * 0.05
	}

	var sb strings.Builder
	writeFrame(&sb, cfg)

	// Grid and left axis (sentiment).
	gridLines := 4
	for i := 0; i <= gridLines; i++ {
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.1f</text>`,
			px-5, y+4, cfg.FontSize, sentimentColor, -1+2*float64(i)/float64(gridLines)))
		if hasPrice {
			price := minP + (maxP-minP)*float64(i)/float64(gridLines)
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="start">%.2f</text>`,
				px+pw+5, y+4, cfg.FontSize, priceColor, price))
		}
	}
	writeAxisTitles(&sb, cfg, "Sentiment Score", "Stock Price")

	writeSeries(&sb, cfg, sentiment, -1, 1, sentimentColor, "circle")
	if hasPrice {
		writeSeries(&sb, cfg, closes, minP, maxP, priceColor, "square")
	}
	writeDateLabels(&sb, cfg, labels)
	writeLegend(&sb, cfg, []legendEntry{{"Sentiment", sentimentColor}, {"Stock Price", priceColor}})

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Sentiment Trend
// ════════════════════════════════════════════════════════════════════

// TrendChart plots the daily average sentiment of summary on a -1..+1 axis.
func TrendChart(entity string, days int, summary []models.DailySentiment, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = fmt.Sprintf("%s Sentiment Trend (Last %d Days)", entity, days)
	}
	if len(summary) == 0 {
		return emptySVG(cfg, "No sentiment data")
	}

	px, py, pw, ph := cfg.plotArea()
	values := make([]float64, len(summary))
	labels := make([]string, len(summary))
	for i, s := range summary {
		values[i] = s.AvgSentiment
		labels[i] = s.Date
	}

	var sb strings.Builder
	writeFrame(&sb, cfg)

	gridLines := 4
	for i := 0; i <= gridLines; i++ {
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		stroke := fmt.Sprintf(`stroke="%s" stroke-dasharray="3,3"`, cfg.GridColor)
		if i == gridLines/2 {
			stroke = `stroke="#999999"` // zero line
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" %s/>`, px, y, px+pw, y, stroke))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.1f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, -1+2*float64(i)/float64(gridLines)))
	}
	writeAxisTitles(&sb, cfg, "Average Sentiment (-1 to +1)", "")

	writeSeries(&sb, cfg, values, -1, 1, sentimentColor, "circle")
	writeDateLabels(&sb, cfg, labels)

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

type legendEntry struct {
	name  string
	color string
}

// xAt returns the x coordinate of point i of n.
func xAt(cfg ChartConfig, i, n int) float64 {
	px, _, pw, _ := cfg.plotArea()
	if n <= 1 {
		return float64(px) + float64(pw)/2
	}
	return float64(px) + float64(i)*float64(pw)/float64(n-1)
}

// yAt maps v in [lo, hi] to the plot's vertical range.
func yAt(cfg ChartConfig, v, lo, hi float64) float64 {
	_, py, _, ph := cfg.plotArea()
	ratio := (v - lo) / (hi - lo)
	return float64(py+ph) - ratio*float64(ph)
}

func writeFrame(sb *strings.Builder, cfg ChartConfig) {
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="22" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))
}

// writeSeries draws values as a line with markers. NaN values break the
// line so missing days show as gaps.
func writeSeries(sb *strings.Builder, cfg ChartConfig, values []float64, lo, hi float64, color, marker string) {
	n := len(values)
	var pathParts []string
	pen := false
	for i, v := range values {
		if math.IsNaN(v) {
			pen = false
			continue
		}
		cmd := "L"
		if !pen {
			cmd = "M"
			pen = true
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, xAt(cfg, i, n), yAt(cfg, v, lo, hi)))
	}
	if len(pathParts) > 1 {
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(pathParts, " "), color))
	}

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		cx, cy := xAt(cfg, i, n), yAt(cfg, v, lo, hi)
		if marker == "square" {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="7" height="7" fill="%s"/>`, cx-3.5, cy-3.5, color))
		} else {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3.5" fill="%s"/>`, cx, cy, color))
		}
	}
}

// writeDateLabels writes x-axis labels rotated 45°, thinning them when
// there are more than fit.
func writeDateLabels(sb *strings.Builder, cfg ChartConfig, labels []string) {
	_, py, _, ph := cfg.plotArea()
	interval := len(labels) / 15
	if interval < 1 {
		interval = 1
	}
	y := py + ph + 14
	for i := 0; i < len(labels); i += interval {
		x := xAt(cfg, i, len(labels))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="end" transform="rotate(-45 %.1f %d)">%s</text>`,
			x, y, cfg.FontSize-1, cfg.TextColor, x, y, escapeXML(labels[i])))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">Date</text>`,
		cfg.Width/2, cfg.Height-8, cfg.FontSize, cfg.TextColor))
}

func writeAxisTitles(sb *strings.Builder, cfg ChartConfig, left, right string) {
	_, py, _, ph := cfg.plotArea()
	mid := py + ph/2
	if left != "" {
		sb.WriteString(fmt.Sprintf(`<text x="16" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90 16 %d)">%s</text>`,
			mid, cfg.FontSize, cfg.TextColor, mid, escapeXML(left)))
	}
	if right != "" {
		x := cfg.Width - 14
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(90 %d %d)">%s</text>`,
			x, mid, cfg.FontSize, cfg.TextColor, x, mid, escapeXML(right)))
	}
}

func writeLegend(sb *strings.Builder, cfg ChartConfig, entries []legendEntry) {
	px, py, _, _ := cfg.plotArea()
	for i, e := range entries {
		ly := py + 10 + i*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, e.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(e.name)))
	}
}

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
