package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"flightdelays/internal/severity"
)

// KML structures for XML marshalling, following KML 2.2:
// https://developers.google.com/kml/documentation/kmlreference

// KML is the root element of a KML document.
type KML struct {
	XMLName   xml.Name `xml:"kml"`
	Namespace string   `xml:"xmlns,attr"`
	Document  Document `xml:"Document"`
}

// Document contains the document metadata and one folder per tier.
type Document struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description,omitempty"`
	Styles      []Style  `xml:"Style,omitempty"`
	Folders     []Folder `xml:"Folder"`
}

// Style defines the line appearance of a tier.
type Style struct {
	ID        string    `xml:"id,attr"`
	LineStyle LineStyle `xml:"LineStyle"`
}

// LineStyle colours are aabbggrr.
type LineStyle struct {
	Color string  `xml:"color"`
	Width float64 `xml:"width"`
}

// Folder groups the placemarks of one tier so viewers can toggle it.
type Folder struct {
	Name       string      `xml:"name"`
	Placemarks []Placemark `xml:"Placemark"`
}

// Placemark is one route line with its delay metadata.
type Placemark struct {
	Name         string        `xml:"name"`
	Description  string        `xml:"description,omitempty"`
	StyleURL     string        `xml:"styleUrl,omitempty"`
	LineString   LineString    `xml:"LineString"`
	ExtendedData *ExtendedData `xml:"ExtendedData,omitempty"`
}

// LineString coordinates are "lon,lat,alt" tuples separated by spaces.
type LineString struct {
	Tessellate  int    `xml:"tessellate"`
	Coordinates string `xml:"coordinates"`
}

// ExtendedData holds custom data associated with a placemark.
type ExtendedData struct {
	Data []Data `xml:"Data"`
}

// Data represents a single piece of extended data.
type Data struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

func tierStyleID(t severity.Tier) string {
	return t.String() + "Delay"
}

// GenerateKML builds a KML document with one folder per severity tier.
func GenerateKML(layers severity.Layers) KML {
	styles := make([]Style, 0, len(severity.Tiers))
	folders := make([]Folder, 0, len(severity.Tiers))
	for _, tier := range severity.Tiers {
		styles = append(styles, Style{
			ID:        tierStyleID(tier),
			LineStyle: LineStyle{Color: tier.KMLColor(), Width: 2},
		})

		segs := layers.Layer(tier)
		placemarks := make([]Placemark, len(segs))
		for i, s := range segs {
			placemarks[i] = Placemark{
				Name: s.Route.String(),
				Description: fmt.Sprintf("%d of %d flights delayed (%.1f%%)",
					s.Tally.Delayed, s.Tally.Total, s.Tally.Percent()),
				StyleURL: "#" + tierStyleID(tier),
				LineString: LineString{
					Tessellate: 1,
					Coordinates: fmt.Sprintf("%.6f,%.6f,0 %.6f,%.6f,0",
						s.From.Longitude, s.From.Latitude, s.To.Longitude, s.To.Latitude),
				},
				ExtendedData: &ExtendedData{
					Data: []Data{
						{Name: "total", Value: strconv.Itoa(s.Tally.Total)},
						{Name: "delayed", Value: strconv.Itoa(s.Tally.Delayed)},
						{Name: "tier", Value: tier.String()},
						{Name: "distance_km", Value: strconv.FormatFloat(s.DistanceKm, 'f', 0, 64)},
					},
				},
			}
		}
		folders = append(folders, Folder{Name: tier.Label(), Placemarks: placemarks})
	}

	return KML{
		Namespace: "http://www.opengis.net/kml/2.2",
		Document: Document{
			Name:        "Delayed Flights by Route",
			Description: fmt.Sprintf("%d routes mapped, %d without known airport coordinates.", layers.Len(), layers.Dropped),
			Styles:      styles,
			Folders:     folders,
		},
	}
}

// WriteKML writes the tiered route layers as an indented KML document.
func WriteKML(w io.Writer, layers severity.Layers) error {
	data, err := xml.MarshalIndent(GenerateKML(layers), "", "  ")
	if err != nil {
		return fmt.Errorf("generating KML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
