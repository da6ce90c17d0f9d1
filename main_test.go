package main

import (
	"bytes"
	"strings"
	"testing"
)

type mockApp struct {
	opts   AppOptions
	called map[string]bool
	sArg   string
}

func newMockApp() *mockApp {
	return &mockApp{
		called: make(map[string]bool),
	}
}

func (m *mockApp) ApplyOptions(opts AppOptions) { m.opts = opts }
func (m *mockApp) RunEncodeOnly()               { m.called["RunEncodeOnly"] = true }
func (m *mockApp) RunClassify()                 { m.called["RunClassify"] = true }
func (m *mockApp) RunLearn(s string)            { m.called["RunLearn"] = true; m.sArg = s }
func (m *mockApp) RunList()                     { m.called["RunList"] = true }
func (m *mockApp) RunRender(s string)           { m.called["RunRender"] = true; m.sArg = s }
func (m *mockApp) RunService()                  { m.called["RunService"] = true }

func TestRun_Flags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedCalled string
		verifyOpts     func(*testing.T, *mockApp)
	}{
		{
			name:           "EncodeOnly",
			args:           []string{"-encode-only", "-stroke", "stroke.json"},
			expectedCalled: "RunEncodeOnly",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if app.opts.StrokeFile != "stroke.json" {
					t.Errorf("expected StrokeFile stroke.json, got %s", app.opts.StrokeFile)
				}
			},
		},
		{
			name:           "Classify",
			args:           []string{"-classify", "-stroke", "s.json", "-library", "lib.json"},
			expectedCalled: "RunClassify",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if app.opts.LibraryFile != "lib.json" {
					t.Errorf("expected LibraryFile lib.json, got %s", app.opts.LibraryFile)
				}
			},
		},
		{
			name:           "Learn",
			args:           []string{"-learn", "circle", "-stroke", "s.json", "-precision", "8"},
			expectedCalled: "RunLearn",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if app.sArg != "circle" {
					t.Errorf("expected learn name circle, got %s", app.sArg)
				}
				if app.opts.Precision != 8 {
					t.Errorf("expected Precision 8, got %d", app.opts.Precision)
				}
			},
		},
		{
			name:           "List",
			args:           []string{"-list"},
			expectedCalled: "RunList",
		},
		{
			name:           "Render",
			args:           []string{"-render", "circle", "-output", "out.png"},
			expectedCalled: "RunRender",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if app.sArg != "circle" {
					t.Errorf("expected render name circle, got %s", app.sArg)
				}
				if app.opts.OutputFile != "out.png" {
					t.Errorf("expected OutputFile out.png, got %s", app.opts.OutputFile)
				}
			},
		},
		{
			name:           "VectorRendering",
			args:           []string{"-render", "circle", "-format", "vector", "-vector-format", "png"},
			expectedCalled: "RunRender",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if app.opts.RenderFormat != "vector" {
					t.Errorf("expected RenderFormat vector, got %s", app.opts.RenderFormat)
				}
				if app.opts.VectorFormat != "png" {
					t.Errorf("expected VectorFormat png, got %s", app.opts.VectorFormat)
				}
			},
		},
		{
			name:           "MqttMode",
			args:           []string{"-mqtt", "-http-port", "9090"},
			expectedCalled: "RunService",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if !app.opts.MqttMode {
					t.Error("expected MqttMode true")
				}
				if app.opts.HTTPPort != 9090 {
					t.Errorf("expected HTTPPort 9090, got %d", app.opts.HTTPPort)
				}
			},
		},
		{
			name:           "HttpMode",
			args:           []string{"-http", "-simplify", "2.5"},
			expectedCalled: "RunService",
			verifyOpts: func(t *testing.T, app *mockApp) {
				if !app.opts.HTTPMode {
					t.Error("expected HTTPMode true")
				}
				if app.opts.SimplifyTol != 2.5 {
					t.Errorf("expected SimplifyTol 2.5, got %f", app.opts.SimplifyTol)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newMockApp()
			var out bytes.Buffer
			err := run(tt.args, &out, app)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if !app.called[tt.expectedCalled] {
				t.Errorf("expected %s to be called", tt.expectedCalled)
			}

			if tt.verifyOpts != nil {
				tt.verifyOpts(t, app)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{"-help"}, &out, app)
	if err == nil {
		t.Error("expected error from -help, got nil")
	}
	if !strings.Contains(out.String(), "Usage of inkmesh") {
		t.Errorf("expected usage info in output, got: %s", out.String())
	}
}

func TestRun_Default(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{}, &out, app)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "inkmesh version: "+Version) {
		t.Errorf("expected output to contain version, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "inkmesh stroke classifier") {
		t.Errorf("expected usage summary in output, got: %s", out.String())
	}
	for _, name := range []string{"RunEncodeOnly", "RunClassify", "RunLearn", "RunList", "RunRender", "RunService"} {
		if app.called[name] {
			t.Errorf("expected no mode to run by default, but %s was called", name)
		}
	}
}

func TestRun_SimplifyDefaultIsUnset(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	if err := run([]string{"-list"}, &out, app); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if app.opts.SimplifyTol != -1 {
		t.Errorf("expected SimplifyTol default -1, got %f", app.opts.SimplifyTol)
	}
}
