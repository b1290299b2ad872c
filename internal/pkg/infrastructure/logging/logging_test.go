package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	o11ylogging "github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/matryer/is"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			is := is.New(t)
			got, err := ParseLevel(tt.in)
			is.NoErr(err)
			is.Equal(got, tt.want)
		})
	}

	_, err := ParseLevel("verbose")
	is.New(t).True(err != nil)
}

func TestParseFormat(t *testing.T) {
	is := is.New(t)

	f, err := ParseFormat("")
	is.NoErr(err)
	is.Equal(f, "text")

	f, err = ParseFormat("JSON")
	is.NoErr(err)
	is.Equal(f, "json")

	_, err = ParseFormat("xml")
	is.True(err != nil)
}

func TestJSONLoggerCarriesRunID(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "json", slog.LevelInfo, "wunderground-observation", "test")

	ctx, _ := NewRunContext(context.Background(), logger)
	o11ylogging.GetFromContext(ctx).Info("hello")

	entry := map[string]any{}
	is.NoErr(json.Unmarshal(buf.Bytes(), &entry))
	is.Equal(entry["msg"], "hello")
	is.Equal(entry["service"], "wunderground-observation")
	is.True(entry["run_id"] != "")
	is.True(entry["run_id"] != nil)
}

func TestLoggerFiltersByLevel(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "text", slog.LevelWarn, "wunderground-observation", "test")
	logger.Info("should not be written")

	is.Equal(buf.Len(), 0)
}
