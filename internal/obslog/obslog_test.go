package obslog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceSwapsAndRestores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))

	L().Info("captured")
	restore()
	L().Info("dropped")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "captured" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":    zapcore.DebugLevel,
		"WARN":     zapcore.WarnLevel,
		" error ":  zapcore.ErrorLevel,
		"nonsense": zapcore.InfoLevel,
		"":         zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
