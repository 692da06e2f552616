package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds the root logger shared by services and the plugin host.
func New(name string, opts Options) (hclog.Logger, error) {
	level := hclog.LevelFromString(strings.TrimSpace(opts.Level))
	if level == hclog.NoLevel {
		if strings.TrimSpace(opts.Level) != "" {
			return nil, fmt.Errorf("unknown log level %q", opts.Level)
		}
		level = hclog.Info
	}
	var jsonFormat bool
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     output,
		JSONFormat: jsonFormat,
	}), nil
}
