package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	providerrpc "standwatch/internal/modules/activity/adapter/out/rpc"
	"standwatch/internal/modules/activity/domain"
	apperrors "standwatch/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second

	// FixtureEnv names the data file handed to provider binaries.
	FixtureEnv = "STANDWATCH_FIXTURE"
)

// PluginSampleSource fetches samples from an out-of-process provider. The
// provider is launched for each call and killed afterwards.
type PluginSampleSource struct {
	binary string
	data   string
	logger hclog.Logger
}

func NewPluginSampleSource(binary, data string, logger hclog.Logger) *PluginSampleSource {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginSampleSource{binary: binary, data: data, logger: logger.Named("provider")}
}

func (s *PluginSampleSource) Fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	client, closeFn, err := s.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.FetchSamples(callCtx, &providerrpc.SamplesRequest{
		FromUnixNano: window.From.UnixNano(),
		ToUnixNano:   window.To.UnixNano(),
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: fetch samples timed out", apperrors.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("%w: fetch samples: %w", apperrors.ErrSourceUnavailable, err)
	}

	switch response.Status {
	case providerrpc.StatusOK:
	case providerrpc.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAuthorizationDenied, response.Message)
	default:
		return nil, fmt.Errorf("%w: provider status %q: %s", apperrors.ErrSourceUnavailable, response.Status, response.Message)
	}

	out := make([]domain.Sample, 0, len(response.Samples))
	for _, wire := range response.Samples {
		out = append(out, domain.Sample{
			Start:           time.Unix(0, wire.StartUnixNano),
			End:             time.Unix(0, wire.EndUnixNano),
			DurationMinutes: wire.DurationMinutes,
		})
	}
	s.logger.Debug("fetched samples", "count", len(out))
	return out, nil
}

func (s *PluginSampleSource) Probe(ctx context.Context) (domain.SourceInfo, error) {
	client, closeFn, err := s.connect()
	if err != nil {
		return domain.SourceInfo{}, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.SourceInfo{}, fmt.Errorf("%w: get metadata: %w", apperrors.ErrSourceUnavailable, err)
	}
	return domain.SourceInfo{Kind: "plugin", Name: meta.Name, Version: meta.Version, Detail: meta.Detail}, nil
}

func (s *PluginSampleSource) connect() (providerrpc.Provider, func(), error) {
	if s.binary == "" {
		return nil, nil, fmt.Errorf("provider binary is not configured")
	}
	cmd := exec.Command(s.binary)
	cmd.Env = os.Environ()
	if s.data != "" {
		cmd.Env = append(cmd.Env, FixtureEnv+"="+s.data)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  providerrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          providerrpc.PluginMap(nil),
		Cmd:              cmd,
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           s.logger,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider: %w", err)
	}
	raw, err := rpcClient.Dispense(providerrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(providerrpc.Provider)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
