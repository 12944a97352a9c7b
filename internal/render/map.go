package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"flightdelays/internal/severity"
)

// MapOptions controls the interactive map page.
type MapOptions struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Weight    float64
	Opacity   float64
}

// DefaultMapOptions centres the map on the continental United States.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Title:     "Delayed Flights by Route",
		CenterLat: 37.0902,
		CenterLon: -95.7129,
		Zoom:      4,
		Weight:    2,
		Opacity:   0.6,
	}
}

// MapLayer is one toggleable severity layer as embedded in the map page.
type MapLayer struct {
	Name     string                     `json:"name"`
	Tier     severity.Tier              `json:"tier"`
	Color    string                     `json:"color"`
	Features *geojson.FeatureCollection `json:"features"`
}

// MapLayers converts partitioned routes into GeoJSON layers, one per tier in
// ascending severity.
func MapLayers(layers severity.Layers) []MapLayer {
	out := make([]MapLayer, 0, len(severity.Tiers))
	for _, tier := range severity.Tiers {
		fc := geojson.NewFeatureCollection()
		for _, s := range layers.Layer(tier) {
			f := geojson.NewFeature(orb.LineString{s.From.Point(), s.To.Point()})
			f.Properties["route"] = s.Route.String()
			f.Properties["origin"] = s.Route.Origin
			f.Properties["destination"] = s.Route.Destination
			f.Properties["total"] = s.Tally.Total
			f.Properties["delayed"] = s.Tally.Delayed
			f.Properties["percent"] = math.Round(s.Tally.Percent()*10) / 10
			f.Properties["tier"] = tier.String()
			f.Properties["color"] = tier.Color()
			f.Properties["distance_km"] = math.Round(s.DistanceKm)
			fc.Append(f)
		}
		out = append(out, MapLayer{
			Name:     tier.Label(),
			Tier:     tier,
			Color:    tier.Color(),
			Features: fc,
		})
	}
	return out
}

var mapPage = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map" data-routes="{{.Routes}}"></div>
<script type="application/json" id="route-layers">{{.Layers}}</script>
<script>
(function () {
	var map = L.map('map').setView([{{.Options.CenterLat}}, {{.Options.CenterLon}}], {{.Options.Zoom}});
	L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
		attribution: '&copy; OpenStreetMap contributors'
	}).addTo(map);

	var layers = JSON.parse(document.getElementById('route-layers').textContent);
	var overlays = {};
	layers.forEach(function (layer) {
		var group = L.geoJSON(layer.features, {
			style: function (f) {
				return {color: f.properties.color, weight: {{.Options.Weight}}, opacity: {{.Options.Opacity}}};
			},
			onEachFeature: function (f, line) {
				line.bindPopup(f.properties.route + ': ' + f.properties.percent + '% delayed (' +
					f.properties.delayed + '/' + f.properties.total + ')');
			}
		});
		group.addTo(map);
		overlays[layer.name] = group;
	});
	L.control.layers(null, overlays, {collapsed: false}).addTo(map);
})();
</script>
</body>
</html>
`))

// Map writes a self-contained HTML page with one toggleable line layer per
// severity tier.
func Map(w io.Writer, layers severity.Layers, opts MapOptions) error {
	data, err := json.Marshal(MapLayers(layers))
	if err != nil {
		return fmt.Errorf("encode map layers: %w", err)
	}

	return mapPage.Execute(w, struct {
		Title   string
		Routes  int
		Layers  template.JS
		Options MapOptions
	}{
		Title:   opts.Title,
		Routes:  layers.Len(),
		Layers:  template.JS(data),
		Options: opts,
	})
}
