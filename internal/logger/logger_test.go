package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default logger for test isolation.
func resetLogger() {
	Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		logged  []string
		dropped []string
	}{
		{
			name:    "default info",
			opts:    Options{},
			logged:  []string{"info", "warn", "error"},
			dropped: []string{"debug"},
		},
		{
			name:   "debug",
			opts:   Options{Debug: true},
			logged: []string{"debug", "info", "warn", "error"},
		},
		{
			name:    "quiet",
			opts:    Options{Quiet: true},
			logged:  []string{"error"},
			dropped: []string{"debug", "info", "warn"},
		},
		{
			name:    "quiet overrides debug",
			opts:    Options{Debug: true, Quiet: true},
			logged:  []string{"error"},
			dropped: []string{"debug", "info"},
		},
		{
			name:    "explicit level wins",
			opts:    Options{Quiet: true, Level: "warn"},
			logged:  []string{"warn", "error"},
			dropped: []string{"debug", "info"},
		},
		{
			name:    "bad level falls back",
			opts:    Options{Level: "verbose"},
			logged:  []string{"info"},
			dropped: []string{"debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			Init(tt.opts)
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			out := buf.String()
			for _, l := range tt.logged {
				if !strings.Contains(out, "msg-"+l) {
					t.Errorf("expected %s message in output:\n%s", l, out)
				}
			}
			for _, l := range tt.dropped {
				if strings.Contains(out, "msg-"+l) {
					t.Errorf("unexpected %s message in output:\n%s", l, out)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestInit_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("cache miss", "key", "markdown_1_111")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "cache miss" || rec["key"] != "markdown_1_111" || rec["level"] != "INFO" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Info("routed")
	if !strings.Contains(buf.String(), "routed") {
		t.Error("expected message through custom logger")
	}
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("stage", "chrome").Info("stage done")

	out := buf.String()
	if !strings.Contains(out, "stage done") || !strings.Contains(out, "stage=chrome") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx-debug")
	InfoContext(ctx, "ctx-info")
	WarnContext(ctx, "ctx-warn")
	ErrorContext(ctx, "ctx-error")

	for _, want := range []string{"ctx-debug", "ctx-info", "ctx-warn", "ctx-error"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q", want)
		}
	}
}
