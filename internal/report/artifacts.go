package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"flightdelays/internal/render"
)

// Artifact file names.
const (
	AirlineChartFile = "delays_by_airline.pdf"
	HourChartFile    = "delays_by_hour.pdf"
	RouteHeatmapFile = "delays_by_route_heatmap.pdf"
	MapFile          = "delayed_flights_map.html"
	KMLFile          = "delayed_flights_map.kml"
	RoutesCSVFile    = "delays_by_route.csv"
	SummaryFile      = "summary.json"
)

// Artifact pairs an output file name with the function that renders it.
type Artifact struct {
	Name  string
	Write func(io.Writer) error
}

// AirlineChart renders the by-airline bar chart.
func (b *Batch) AirlineChart() Artifact {
	return Artifact{AirlineChartFile, func(w io.Writer) error { return render.AirlineChart(w, b.Airlines) }}
}

// HourChart renders the by-hour bar chart.
func (b *Batch) HourChart() Artifact {
	return Artifact{HourChartFile, func(w io.Writer) error { return render.HourChart(w, b.Hours) }}
}

// RouteHeatmap renders the origin × destination heatmap.
func (b *Batch) RouteHeatmap() Artifact {
	return Artifact{RouteHeatmapFile, func(w io.Writer) error { return render.RouteHeatmap(w, b.Routes) }}
}

// Map renders the layered HTML route map.
func (b *Batch) Map() Artifact {
	return Artifact{MapFile, func(w io.Writer) error {
		return render.Map(w, b.Layers, render.DefaultMapOptions())
	}}
}

// KML renders the layered route map for Google Earth.
func (b *Batch) KML() Artifact {
	return Artifact{KMLFile, func(w io.Writer) error { return render.WriteKML(w, b.Layers) }}
}

// RoutesCSV renders the by-route table.
func (b *Batch) RoutesCSV() Artifact {
	return Artifact{RoutesCSVFile, func(w io.Writer) error { return render.RoutesCSV(w, b.Routes) }}
}

// SummaryJSON renders the batch summary.
func (b *Batch) SummaryJSON(now time.Time) Artifact {
	return Artifact{SummaryFile, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b.Summary(now))
	}}
}

// Artifacts lists every artifact the batch can produce.
func (b *Batch) Artifacts(now time.Time) []Artifact {
	return []Artifact{
		b.AirlineChart(),
		b.HourChart(),
		b.RouteHeatmap(),
		b.Map(),
		b.KML(),
		b.RoutesCSV(),
		b.SummaryJSON(now),
	}
}

// WriteFile renders a into dir, creating dir if needed, and returns the path.
func WriteFile(dir string, a Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, a.Name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", a.Name, err)
	}
	if err := a.Write(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("rendering %s: %w", a.Name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", a.Name, err)
	}
	return path, nil
}

// WriteArtifacts writes every artifact into dir and returns the paths written.
func (b *Batch) WriteArtifacts(dir string, now time.Time) ([]string, error) {
	var paths []string
	for _, a := range b.Artifacts(now) {
		path, err := WriteFile(dir, a)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
