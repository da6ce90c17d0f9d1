package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/inkmesh/inkmesh/glyph"
)

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(reg *glyph.Registry, config *glyph.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		lib, _ := reg.Library(reg.ActiveName())
		entries := 0
		if lib != nil {
			entries = lib.Len()
		}

		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Library   string    `json:"library"`
			Entries   int       `json:"entries"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Library:   reg.ActiveName(),
			Entries:   entries,
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Classify a stroke payload against the active library
	mux.HandleFunc("/api/classify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}

		sm, err := decodeStrokeBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		source := sm.Source
		if source == "" {
			source = "http"
		}

		points := sm.Points
		if config != nil && config.SimplifyTolerance > 0 {
			points = glyph.Simplify(points, config.SimplifyTolerance)
		}

		res, err := reg.Classify(source, points)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.Printf("Error encoding classification result: %v", err)
		}
	})

	// Library listing
	mux.HandleFunc("/api/library", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "GET required", http.StatusMethodNotAllowed)
			return
		}

		lib, ok := reg.Library(reg.ActiveName())
		if !ok {
			http.Error(w, "No active library", http.StatusServiceUnavailable)
			return
		}

		type entryInfo struct {
			Name       string  `json:"name"`
			PointCount int     `json:"pointCount"`
			Length     float64 `json:"length"`
		}
		out := struct {
			Name      string        `json:"name"`
			Precision int           `json:"precision"`
			Weights   glyph.Weights `json:"weights"`
			Entries   []entryInfo   `json:"entries"`
		}{
			Name:      lib.Name(),
			Precision: lib.Precision(),
			Weights:   lib.Weights(),
		}
		for _, e := range lib.Entries() {
			pts := e.Shape().Points()
			out.Entries = append(out.Entries, entryInfo{
				Name:       e.Name(),
				PointCount: len(pts),
				Length:     glyph.StrokeLength(pts),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Printf("Error encoding library listing: %v", err)
		}
	})

	// Library strokes as GeoJSON for external viewers
	mux.HandleFunc("/api/library.geojson", func(w http.ResponseWriter, r *http.Request) {
		lib, ok := reg.Library(reg.ActiveName())
		if !ok {
			http.Error(w, "No active library", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/geo+json")
		if err := json.NewEncoder(w).Encode(glyph.LibraryFeatureCollection(lib)); err != nil {
			log.Printf("Error encoding library GeoJSON: %v", err)
		}
	})

	// Entry management: PUT stores a labeled stroke, DELETE removes one.
	// POST /api/library/clear drops all custom entries.
	mux.HandleFunc("/api/library/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/api/library/")
		if name == "" {
			http.Error(w, "Entry name required", http.StatusBadRequest)
			return
		}

		if name == "clear" && r.Method == http.MethodPost {
			if err := reg.ClearActive(); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.Method {
		case http.MethodPut:
			sm, err := decodeStrokeBody(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			points := sm.Points
			if config != nil && config.SimplifyTolerance > 0 {
				points = glyph.Simplify(points, config.SimplifyTolerance)
			}
			if err := reg.Learn(name, points); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		case http.MethodDelete:
			if err := reg.Forget(name); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "PUT or DELETE required", http.StatusMethodNotAllowed)
		}
	})

	// Scoring weights
	mux.HandleFunc("/api/weights", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "PUT required", http.StatusMethodNotAllowed)
			return
		}

		var weights glyph.Weights
		if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
			http.Error(w, fmt.Sprintf("parsing weights: %v", err), http.StatusBadRequest)
			return
		}
		if weights.Grid < 0 || weights.Circle < 0 || weights.Horizontal < 0 || weights.Vertical < 0 {
			http.Error(w, "weights must not be negative", http.StatusBadRequest)
			return
		}

		if err := reg.SetWeights(weights); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// Shape renders: /api/shape/{name}.png and /api/shape/{name}.svg
	mux.HandleFunc("/api/shape/", func(w http.ResponseWriter, r *http.Request) {
		file := strings.TrimPrefix(r.URL.Path, "/api/shape/")

		lib, ok := reg.Library(reg.ActiveName())
		if !ok {
			http.Error(w, "No active library", http.StatusServiceUnavailable)
			return
		}

		switch {
		case strings.HasSuffix(file, ".png"):
			name := strings.TrimSuffix(file, ".png")
			entry, ok := lib.Get(name)
			if !ok {
				http.Error(w, "No such entry", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Cache-Control", "no-cache")
			if err := glyph.NewRasterRenderer(entry.Shape(), name).WritePNG(w); err != nil {
				log.Printf("Error encoding shape PNG for %s: %v", name, err)
			}

		case strings.HasSuffix(file, ".svg"):
			name := strings.TrimSuffix(file, ".svg")
			entry, ok := lib.Get(name)
			if !ok {
				http.Error(w, "No such entry", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Header().Set("Cache-Control", "no-cache")
			if err := glyph.NewVectorRenderer(entry.Shape()).RenderToSVG(w); err != nil {
				log.Printf("Error encoding shape SVG for %s: %v", name, err)
			}

		default:
			http.Error(w, "Use {name}.png or {name}.svg", http.StatusNotFound)
		}
	})

	// Default route serves a small HTML gallery of the library
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		lib, _ := reg.Library(reg.ActiveName())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>inkmesh</title>
<style>
body{font-family:sans-serif;background:#1a1a1a;color:#eee;padding:2em}
img{background:#fff;margin:0.5em;vertical-align:top}
figure{display:inline-block;text-align:center}
</style>
</head>
<body>
<h1>inkmesh</h1>
`)
		if lib != nil {
			for _, e := range lib.Entries() {
				if e.Shape().PointCount() == 0 {
					continue
				}
				fmt.Fprintf(w, "<figure><img src=\"/api/shape/%s.svg\" width=\"220\" alt=\"%s\"><figcaption>%s</figcaption></figure>\n",
					e.Name(), e.Name(), e.Name())
			}
		}
		fmt.Fprint(w, "</body>\n</html>")
	})

	// Wrap mux with logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		mux.ServeHTTP(w, r)
	})
}

// decodeStrokeBody parses a request body as a stroke message. Unlike the
// MQTT topics there is no source encoded in a topic path, so the envelope
// form with an explicit points field is required.
func decodeStrokeBody(r *http.Request) (*glyph.StrokeMessage, error) {
	var sm glyph.StrokeMessage
	if err := json.NewDecoder(r.Body).Decode(&sm); err != nil {
		return nil, fmt.Errorf("parsing stroke payload: %w", err)
	}
	if sm.Points == nil {
		return nil, fmt.Errorf("stroke payload carries no points field")
	}
	return &sm, nil
}
