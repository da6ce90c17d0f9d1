package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// appRunner is the surface main's flag dispatch drives, split out so the
// dispatch logic is testable without touching files or sockets.
type appRunner interface {
	ApplyOptions(AppOptions)
	RunEncodeOnly()
	RunClassify()
	RunLearn(name string)
	RunList()
	RunRender(name string)
	RunService()
}

// run parses CLI flags and dispatches to the matching app mode.
func run(args []string, out io.Writer, app appRunner) error {
	flags := flag.NewFlagSet("inkmesh", flag.ContinueOnError)
	flags.SetOutput(out)

	configFile := flags.String("config", "config.yaml", "Path to configuration file")
	libraryFile := flags.String("library", "", "Path to library JSON file (overrides config)")
	precision := flags.Int("precision", 0, "Encoding precision (overrides config)")
	simplifyTol := flags.Float64("simplify", -1, "Douglas-Peucker tolerance for input strokes (overrides config)")

	encodeOnly := flags.Bool("encode-only", false, "Encode a stroke file, print its maps and exit (test mode)")
	classifyOnly := flags.Bool("classify", false, "Classify a stroke file against the library and exit")
	learnName := flags.String("learn", "", "Store the stroke file in the library under this name and exit")
	strokeFile := flags.String("stroke", "", "Stroke JSON file for -encode-only, -classify and -learn")
	listOnly := flags.Bool("list", false, "List library entries and exit")
	renderName := flags.String("render", "", "Render a library entry and exit")
	outputFile := flags.String("output", "shape.png", "Output file for -render mode")

	renderFormat := flags.String("format", "raster", "Render format: raster or vector")
	vectorFormat := flags.String("vector-format", "svg", "Vector output format: svg or png")

	mqttMode := flags.Bool("mqtt", false, "Run MQTT service mode for stroke classification")
	httpMode := flags.Bool("http", false, "Enable HTTP server")
	httpPort := flags.Int("http-port", 0, "HTTP server port (overrides config)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "inkmesh version: %s\n", Version)

	app.ApplyOptions(AppOptions{
		ConfigFile:   *configFile,
		LibraryFile:  *libraryFile,
		Precision:    *precision,
		SimplifyTol:  *simplifyTol,
		StrokeFile:   *strokeFile,
		OutputFile:   *outputFile,
		RenderFormat: *renderFormat,
		VectorFormat: *vectorFormat,
		HTTPPort:     *httpPort,
		MqttMode:     *mqttMode,
		HTTPMode:     *httpMode,
	})

	switch {
	case *encodeOnly:
		app.RunEncodeOnly()
	case *classifyOnly:
		app.RunClassify()
	case *learnName != "":
		app.RunLearn(*learnName)
	case *listOnly:
		app.RunList()
	case *renderName != "":
		app.RunRender(*renderName)
	case *mqttMode || *httpMode:
		app.RunService()
	default:
		fmt.Fprintln(out, "inkmesh stroke classifier")
		fmt.Fprintln(out, "Use -encode-only -stroke=FILE to inspect a stroke's density maps")
		fmt.Fprintln(out, "Use -classify -stroke=FILE to rank a stroke against the library")
		fmt.Fprintln(out, "Use -learn=NAME -stroke=FILE to store a labeled stroke")
		fmt.Fprintln(out, "Use -list to list library entries")
		fmt.Fprintln(out, "Use -render=NAME to render a library entry")
		fmt.Fprintln(out, "Use -mqtt to run the MQTT classification service")
		fmt.Fprintln(out, "Use -http to run the HTTP server")
		fmt.Fprintln(out, "Use -mqtt -http to run both together")
		fmt.Fprintln(out, "\nConfiguration:")
		fmt.Fprintln(out, "  config.yaml - HTTP/MQTT settings, precision, weights, library path")
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		os.Exit(2)
	}
}
