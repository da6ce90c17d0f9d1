package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkmesh/inkmesh/glyph"
)

// App encapsulates the application state and dependencies
type App struct {
	Config     *glyph.Config
	Registry   *glyph.Registry
	MQTTClient *glyph.MQTTClient
	Publisher  *glyph.Publisher

	// CLI Flags (effectively dependencies)
	ConfigFile   string
	LibraryFile  string
	Precision    int
	SimplifyTol  float64
	StrokeFile   string
	OutputFile   string
	RenderFormat string
	VectorFormat string
	HTTPPort     int
	MqttMode     bool
	HTTPMode     bool
}

// AppOptions carries parsed CLI flags into the App
type AppOptions struct {
	ConfigFile   string
	LibraryFile  string
	Precision    int
	SimplifyTol  float64
	StrokeFile   string
	OutputFile   string
	RenderFormat string
	VectorFormat string
	HTTPPort     int
	MqttMode     bool
	HTTPMode     bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.LibraryFile = opts.LibraryFile
	a.Precision = opts.Precision
	a.SimplifyTol = opts.SimplifyTol
	a.StrokeFile = opts.StrokeFile
	a.OutputFile = opts.OutputFile
	a.RenderFormat = opts.RenderFormat
	a.VectorFormat = opts.VectorFormat
	a.HTTPPort = opts.HTTPPort
	a.MqttMode = opts.MqttMode
	a.HTTPMode = opts.HTTPMode
}

// loadConfig reads the config file if present and folds CLI overrides on
// top. A missing config file is fine for the one-shot CLI modes; every
// field has a usable default.
func (a *App) loadConfig() *glyph.Config {
	config, err := glyph.LoadConfig(a.ConfigFile)
	if err != nil {
		log.Printf("Config not loaded (%v), using defaults", err)
		config = &glyph.Config{Precision: glyph.DefaultPrecision, HTTPPort: 8080}
	}

	if a.LibraryFile != "" {
		config.LibraryFile = a.LibraryFile
	}
	if a.Precision > 0 {
		config.Precision = a.Precision
	}
	if a.SimplifyTol >= 0 {
		config.SimplifyTolerance = a.SimplifyTol
	}
	if a.HTTPPort > 0 {
		config.HTTPPort = a.HTTPPort
	}

	a.Config = config
	return config
}

// openRegistry builds the registry from the configured library file and
// applies configured weights.
func (a *App) openRegistry() *glyph.Registry {
	config := a.Config
	if config == nil {
		config = a.loadConfig()
	}

	reg := glyph.NewRegistryWithStore(config.LibraryFile, config.Precision)
	if config.Weights != nil {
		if err := reg.SetWeights(*config.Weights); err != nil {
			log.Printf("Warning: applying configured weights: %v", err)
		}
	}
	a.Registry = reg
	return reg
}

// loadStroke reads a stroke JSON file: either the full message envelope
// or a bare point array, then applies the configured simplification.
func (a *App) loadStroke() []glyph.Point {
	if a.StrokeFile == "" {
		log.Fatal("No stroke file given, use -stroke=FILE")
	}

	data, err := os.ReadFile(a.StrokeFile)
	if err != nil {
		log.Fatalf("Error reading stroke file: %v", err)
	}
	sm, err := glyph.DecodeStrokeMessage(data)
	if err != nil {
		log.Fatalf("Error parsing stroke file: %v", err)
	}

	points := sm.Points
	if a.Config != nil && a.Config.SimplifyTolerance > 0 {
		before := len(points)
		points = glyph.Simplify(points, a.Config.SimplifyTolerance)
		if len(points) != before {
			log.Printf("Simplified stroke: %d -> %d points", before, len(points))
		}
	}
	return points
}

// RunEncodeOnly encodes a stroke and prints its four map representations
func (a *App) RunEncodeOnly() {
	config := a.loadConfig()
	points := a.loadStroke()

	shape := glyph.Encode(points, config.Precision)
	b := shape.Bounds()

	fmt.Printf("=== %s ===\n", a.StrokeFile)
	fmt.Printf("Points: %d, Length: %.1f\n", shape.PointCount(), glyph.StrokeLength(points))
	fmt.Printf("Bounds: %.1fx%.1f at (%.1f, %.1f)\n", b.Width(), b.Height(), b.Left, b.Bottom)
	fmt.Printf("Precision: %d\n\n", shape.Precision())

	fmt.Println("Grid map (rows bottom to top):")
	for _, row := range shape.Grid() {
		for _, v := range row {
			fmt.Printf(" %.2f", v)
		}
		fmt.Println()
	}

	fmt.Println("\nCircle map, median-centered (rings inner to outer, quadrants 0-3):")
	for _, ring := range shape.CircleMap(glyph.CenterMedian) {
		for _, v := range ring {
			fmt.Printf(" %.2f", v)
		}
		fmt.Println()
	}

	fmt.Printf("\nFlat horizontal: %v\n", shape.FlatMap(glyph.AxisHorizontal))
	fmt.Printf("Flat vertical:   %v\n", shape.FlatMap(glyph.AxisVertical))
}

// RunClassify ranks a stroke against the library and prints the matches
func (a *App) RunClassify() {
	a.loadConfig()
	reg := a.openRegistry()
	points := a.loadStroke()

	res, err := reg.Classify("cli", points)
	if err != nil {
		log.Fatalf("Error classifying stroke: %v", err)
	}

	fmt.Printf("Best match: %s (%.2f%%)\n\n", res.Best.Name, res.Best.Percent)
	for _, m := range res.Matches {
		fmt.Printf("  %-20s %6.2f%%  (raw %.4f)\n", m.Name, m.Percent, m.RawScore)
	}
}

// RunLearn stores a labeled stroke in the library
func (a *App) RunLearn(name string) {
	config := a.loadConfig()
	reg := a.openRegistry()
	points := a.loadStroke()

	if err := reg.Learn(name, points); err != nil {
		log.Fatalf("Error learning stroke: %v", err)
	}

	if config.LibraryFile == "" {
		log.Println("Warning: no library file configured, the entry is not persisted")
	}
	fmt.Printf("Learned %q (%d points)\n", name, len(points))
}

// RunList prints the entries of the configured library
func (a *App) RunList() {
	a.loadConfig()
	reg := a.openRegistry()

	lib, ok := reg.Library(reg.ActiveName())
	if !ok {
		log.Fatal("No active library")
	}

	fmt.Printf("Library %q (precision %d, %d entries)\n\n", lib.Name(), lib.Precision(), lib.Len())
	for _, e := range lib.Entries() {
		pts := e.Shape().Points()
		fmt.Printf("  %-20s %4d points, length %.1f\n", e.Name(), len(pts), glyph.StrokeLength(pts))
	}
}

// RunRender renders a library entry to a PNG or SVG file
func (a *App) RunRender(name string) {
	a.loadConfig()
	reg := a.openRegistry()

	lib, _ := reg.Library(reg.ActiveName())
	entry, ok := lib.Get(name)
	if !ok {
		fmt.Printf("Entry %q not found. Available:\n", name)
		for _, e := range lib.Entries() {
			fmt.Printf("  - %s\n", e.Name())
		}
		return
	}

	out, err := os.Create(a.OutputFile)
	if err != nil {
		log.Fatalf("Error creating output file: %v", err)
	}
	defer out.Close()

	switch a.RenderFormat {
	case "vector":
		r := glyph.NewVectorRenderer(entry.Shape())
		if a.VectorFormat == "png" {
			err = r.RenderToPNG(out)
		} else {
			err = r.RenderToSVG(out)
		}
	default:
		err = glyph.NewRasterRenderer(entry.Shape(), name).WritePNG(out)
	}
	if err != nil {
		log.Fatalf("Error rendering %q: %v", name, err)
	}

	fmt.Printf("Created: %s\n", a.OutputFile)
}

// RunService starts the combined MQTT and/or HTTP service
func (a *App) RunService() {
	fmt.Println("Starting inkmesh service...")

	config := a.loadConfig()
	reg := a.openRegistry()
	if config.LibraryFile != "" {
		log.Printf("Library file: %s", config.LibraryFile)
	} else {
		log.Println("Warning: no library file configured, learned entries are not persisted")
	}

	// Start MQTT if enabled
	if a.MqttMode {
		strokes := func(source string, points []glyph.Point) {
			if config.SimplifyTolerance > 0 {
				points = glyph.Simplify(points, config.SimplifyTolerance)
			}
			res, err := reg.Classify(source, points)
			if err != nil {
				log.Printf("Error classifying stroke from %s: %v", source, err)
				return
			}
			log.Printf("%s: %d points -> %s (%.2f%%)",
				source, len(points), res.Best.Name, res.Best.Percent)

			if a.Publisher != nil {
				if err := a.Publisher.PublishMatches(source, res.Matches); err != nil {
					log.Printf("Error publishing matches for %s: %v", source, err)
				}
			}
		}

		learns := func(name string, points []glyph.Point) {
			if config.SimplifyTolerance > 0 {
				points = glyph.Simplify(points, config.SimplifyTolerance)
			}
			if err := reg.Learn(name, points); err != nil {
				log.Printf("Error learning %q: %v", name, err)
				return
			}
			log.Printf("Learned %q (%d points)", name, len(points))
		}

		mqttClient, err := glyph.InitMQTT(config, strokes, learns)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if mqttClient == nil {
			log.Fatal("MQTT broker not configured in config.yaml")
		}
		a.MQTTClient = mqttClient

		a.Publisher = glyph.NewPublisher(mqttClient.GetClient())
		a.Publisher.SetPublishPrefix(config.MQTT.PublishPrefix)
		fmt.Println("MQTT match publisher initialized")
	}

	// Start HTTP server if enabled
	if a.HTTPMode {
		httpServer := newHTTPServer(reg, config)
		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", config.HTTPPort)
			log.Printf("[HTTP] Starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService Running")
	fmt.Println("===============")

	if a.MqttMode {
		prefix := config.MQTT.TopicPrefix
		if prefix == "" {
			prefix = "inkmesh"
		}
		fmt.Println("\nMQTT:")
		fmt.Printf("  Strokes in:   %s/strokes/{source}\n", prefix)
		fmt.Printf("  Learning in:  %s/learn/{name}\n", prefix)
		publishPrefix := config.MQTT.PublishPrefix
		if publishPrefix == "" {
			publishPrefix = prefix
		}
		fmt.Printf("  Matches out:  %s/matches/{source}\n", publishPrefix)
		fmt.Printf("  Combined out: %s/matches\n", publishPrefix)
	}

	if a.HTTPMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", config.HTTPPort)
		fmt.Println("  GET  /health               - Health check")
		fmt.Println("  POST /api/classify         - Classify a stroke JSON payload")
		fmt.Println("  GET  /api/library          - List library entries")
		fmt.Println("  PUT  /api/library/{name}   - Store a labeled stroke")
		fmt.Println("  DEL  /api/library/{name}   - Remove an entry")
		fmt.Println("  POST /api/library/clear    - Drop all custom entries")
		fmt.Println("  PUT  /api/weights          - Update scoring weights")
		fmt.Println("  GET  /api/shape/{name}.png - Raster render of an entry")
		fmt.Println("  GET  /api/shape/{name}.svg - Vector render of an entry")
		fmt.Println("  GET  /api/library.geojson  - Library strokes as GeoJSON")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	fmt.Println("\nShutting down service...")
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
	if err := reg.Save(); err != nil {
		log.Printf("Error saving library: %v", err)
	}
	fmt.Println("Service stopped")
}
