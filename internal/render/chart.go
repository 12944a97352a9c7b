package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"flightdelays/internal/delays"
)

// A4 landscape plot area, in millimetres.
const (
	pageW      = 297.0
	pageH      = 210.0
	plotLeft   = 25.0
	plotTop    = 22.0
	plotRight  = 40.0
	plotBottom = 55.0
)

type bar struct {
	label   string
	percent float64
	color   rgb
}

type barChart struct {
	title  string
	xLabel string
	yLabel string
	bars   []bar
	// rotate tilts category labels 45 degrees.
	rotate bool
}

// AirlineChart writes a PDF bar chart of delayed-flight percentage per airline.
func AirlineChart(w io.Writer, ratios []delays.Ratio[string]) error {
	bars := make([]bar, len(ratios))
	for i, r := range ratios {
		bars[i] = bar{label: r.Key, percent: r.Percent(), color: barBlue}
	}

	pdf := newPage("Percentage of Delayed Flights by Airline")
	drawBars(pdf, barChart{
		title:  "Percentage of Delayed Flights by Airline",
		xLabel: "Airline",
		yLabel: "Percentage of Delayed Flights",
		bars:   bars,
		rotate: true,
	})
	return pdf.Output(w)
}

// HourChart writes a PDF bar chart of delayed-flight percentage for each hour
// of the day, coloured on a continuous scale keyed to the hour.
func HourChart(w io.Writer, hours []delays.Ratio[int]) error {
	bars := make([]bar, len(hours))
	for i, h := range hours {
		bars[i] = bar{label: strconv.Itoa(h.Key), percent: h.Percent(), color: hourColor(h.Key)}
	}

	pdf := newPage("Percentage of Delayed Flights by Hour of Day")
	drawBars(pdf, barChart{
		title:  "Percentage of Delayed Flights by Hour of Day",
		xLabel: "Hour of Day",
		yLabel: "Percentage of Delayed Flights",
		bars:   bars,
	})
	drawHourLegend(pdf)
	return pdf.Output(w)
}

func newPage(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("flightdelays", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func drawBars(pdf *gofpdf.Fpdf, c barChart) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	plotW := pageW - plotLeft - plotRight
	plotH := pageH - plotTop - plotBottom
	baseY := plotTop + plotH

	maxPct := 0.0
	for _, b := range c.bars {
		maxPct = max(maxPct, b.percent)
	}
	yMax := niceMax(maxPct)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(plotLeft, plotTop-8, tr(c.title))

	// Horizontal grid with percentage ticks.
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetLineWidth(0.1)
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		v := yMax * float64(i) / ticks
		y := baseY - plotH*float64(i)/ticks
		pdf.SetDrawColor(gridInk.R, gridInk.G, gridInk.B)
		pdf.Line(plotLeft, y, plotLeft+plotW, y)
		label := fmt.Sprintf("%.0f", v)
		pdf.Text(plotLeft-2-pdf.GetStringWidth(label), y+1, label)
	}

	if len(c.bars) > 0 {
		slot := plotW / float64(len(c.bars))
		barW := slot * 0.7
		for i, b := range c.bars {
			x := plotLeft + slot*float64(i) + (slot-barW)/2
			h := plotH * b.percent / yMax
			pdf.SetFillColor(b.color.R, b.color.G, b.color.B)
			pdf.Rect(x, baseY-h, barW, h, "F")

			label := tr(b.label)
			cx := x + barW/2
			lw := pdf.GetStringWidth(label)
			if c.rotate {
				pdf.TransformBegin()
				pdf.TransformRotate(45, cx, baseY+4)
				pdf.Text(cx-lw, baseY+4, label)
				pdf.TransformEnd()
			} else {
				pdf.Text(cx-lw/2, baseY+5, label)
			}
		}
	}

	// Axes.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(plotLeft, plotTop, plotLeft, baseY)
	pdf.Line(plotLeft, baseY, plotLeft+plotW, baseY)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(plotLeft+plotW/2-pdf.GetStringWidth(c.xLabel)/2, pageH-8, c.xLabel)
	pdf.TransformBegin()
	pdf.TransformRotate(90, 10, baseY-plotH/2)
	pdf.Text(10-pdf.GetStringWidth(c.yLabel)/2, baseY-plotH/2, c.yLabel)
	pdf.TransformEnd()
}

// drawHourLegend draws the colour bar for the hour scale to the right of the plot.
func drawHourLegend(pdf *gofpdf.Fpdf) {
	x := pageW - plotRight + 12
	plotH := pageH - plotTop - plotBottom
	step := plotH / delays.HoursPerDay

	pdf.SetFont("Helvetica", "", 6)
	for h := 0; h < delays.HoursPerDay; h++ {
		c := hourColor(h)
		y := plotTop + plotH - step*float64(h+1)
		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Rect(x, y, 6, step, "F")
		pdf.Text(x+7.5, y+step/2+1, strconv.Itoa(h))
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(x-2, plotTop-3, "Hour of Day")
}
