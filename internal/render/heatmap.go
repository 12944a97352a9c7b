package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jung-kurt/gofpdf"

	"flightdelays/internal/delays"
)

const (
	heatCell   = 4.0
	heatMargin = 20.0
	heatLabels = 12.0
	heatLegend = 35.0
)

// RouteHeatmap writes a PDF origin × destination matrix of delayed-flight
// percentages. Routes that were never flown are left blank. The page grows
// with the number of airports.
func RouteHeatmap(w io.Writer, routes []delays.Ratio[delays.Route]) error {
	var origins, dests []string
	cells := make(map[delays.Route]float64, len(routes))
	for _, r := range routes {
		origins = append(origins, r.Key.Origin)
		dests = append(dests, r.Key.Destination)
		cells[r.Key] = r.Percent()
	}
	slices.Sort(origins)
	origins = slices.Compact(origins)
	slices.Sort(dests)
	dests = slices.Compact(dests)

	gridW := heatCell * float64(len(dests))
	gridH := heatCell * float64(len(origins))
	left := heatMargin + heatLabels
	top := heatMargin + heatLabels

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size: gofpdf.SizeType{
			Wd: max(left+gridW+heatLegend+heatMargin, 210),
			Ht: max(top+gridH+heatMargin+10, 150),
		},
	})
	pdf.SetTitle("Percentage of Delayed Flights by Route", true)
	pdf.SetCreator("flightdelays", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(heatMargin, heatMargin-8, "Percentage of Delayed Flights by Route")

	pdf.SetFont("Helvetica", "", 5)
	for j, d := range dests {
		x := left + heatCell*float64(j) + heatCell/2 + 0.8
		pdf.TransformBegin()
		pdf.TransformRotate(90, x, top-1)
		pdf.Text(x, top-1, d)
		pdf.TransformEnd()
	}
	for i, o := range origins {
		y := top + heatCell*float64(i) + heatCell/2 + 0.8
		pdf.Text(left-1-pdf.GetStringWidth(o), y, o)
	}

	for i, o := range origins {
		for j, d := range dests {
			pct, ok := cells[delays.Route{Origin: o, Destination: d}]
			if !ok {
				continue
			}
			c := gradient(reds, pct/100)
			pdf.SetFillColor(c.R, c.G, c.B)
			pdf.Rect(left+heatCell*float64(j), top+heatCell*float64(i), heatCell, heatCell, "F")
		}
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(left, top, gridW, gridH, "D")

	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(left+gridW/2-pdf.GetStringWidth("Destination Airport")/2, heatMargin-2, "Destination Airport")
	pdf.TransformBegin()
	pdf.TransformRotate(90, heatMargin-6, top+gridH/2)
	pdf.Text(heatMargin-6-pdf.GetStringWidth("Origin Airport")/2, top+gridH/2, "Origin Airport")
	pdf.TransformEnd()

	drawRedsLegend(pdf, left+gridW+10, top)
	return pdf.Output(w)
}

func drawRedsLegend(pdf *gofpdf.Fpdf, x, y float64) {
	const steps = 20
	const h = 3.0
	pdf.SetFont("Helvetica", "", 6)
	for i := 0; i < steps; i++ {
		c := gradient(reds, 1-float64(i)/(steps-1))
		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Rect(x, y+h*float64(i), 6, h, "F")
	}
	for _, pct := range []int{100, 50, 0} {
		ly := y + h*float64(steps)*(1-float64(pct)/100)
		pdf.Text(x+7.5, ly+1, fmt.Sprintf("%d%%", pct))
	}
}
