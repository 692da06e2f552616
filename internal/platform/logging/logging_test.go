package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"standwatch/internal/platform/logging"
)

func TestNewWritesKeyValuePairs(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, err := logging.New("standwatch", logging.Options{Level: "debug", Output: buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("cycle completed", "streak", 2)
	out := buf.String()
	if !strings.Contains(out, "cycle completed") || !strings.Contains(out, "streak=2") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, err := logging.New("standwatch", logging.Options{Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownOptions(t *testing.T) {
	t.Parallel()
	if _, err := logging.New("x", logging.Options{Level: "loud"}); err == nil {
		t.Fatalf("unknown level should fail")
	}
	if _, err := logging.New("x", logging.Options{Format: "xml"}); err == nil {
		t.Fatalf("unknown format should fail")
	}
}
