package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-plugin"

	providerrpc "standwatch/internal/modules/activity/adapter/out/rpc"
	"standwatch/internal/modules/activity/domain"
)

const denyEnv = "STANDWATCH_FIXTURE_DENY"

type server struct {
	path string
	deny bool
}

func (s *server) GetMetadata(_ context.Context) (*providerrpc.Metadata, error) {
	detail := "no fixture file"
	if s.path != "" {
		detail = s.path
	}
	return &providerrpc.Metadata{Name: "fixture", Version: "1.0.0", Detail: detail}, nil
}

func (s *server) FetchSamples(_ context.Context, in *providerrpc.SamplesRequest) (*providerrpc.SamplesReply, error) {
	if s.deny {
		return &providerrpc.SamplesReply{Status: providerrpc.StatusUnauthorized, Message: "standing data access was not granted"}, nil
	}
	samples, err := s.load()
	if err != nil {
		return &providerrpc.SamplesReply{Status: providerrpc.StatusUnavailable, Message: err.Error()}, nil
	}
	out := make([]providerrpc.WireSample, 0, len(samples))
	for _, sample := range samples {
		start, end := sample.Start.UnixNano(), sample.End.UnixNano()
		if start >= in.ToUnixNano || end < in.FromUnixNano {
			continue
		}
		out = append(out, providerrpc.WireSample{StartUnixNano: start, EndUnixNano: end, DurationMinutes: sample.DurationMinutes})
	}
	return &providerrpc.SamplesReply{Status: providerrpc.StatusOK, Samples: out}, nil
}

func (s *server) load() ([]domain.Sample, error) {
	if s.path == "" {
		return []domain.Sample{}, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	samples := []domain.Sample{}
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return samples, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: providerrpc.HandshakeConfig,
		Plugins: providerrpc.PluginMap(&server{
			path: os.Getenv("STANDWATCH_FIXTURE"),
			deny: os.Getenv(denyEnv) == "1",
		}),
		GRPCServer: plugin.DefaultGRPCServer,
	})
}
