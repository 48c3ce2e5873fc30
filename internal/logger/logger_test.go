package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithLevels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := NewWith(&bytes.Buffer{}, tt.in, "").GetLevel(); got != tt.want {
			t.Errorf("level %q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	NewWith(&buf, "info", "json").WithField("route", "/api/v1/job/get").Info("request")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not json: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "request" || entry["route"] != "/api/v1/job/get" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
