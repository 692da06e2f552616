// Package rpc is the wire contract between standwatch and a sample provider
// plugin: two unary gRPC calls carried as JSON.
package rpc

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey = "provider"
	serviceName  = "standwatch.provider.v1.SampleProvider"
	codecName    = "json"
)

// Provider statuses. Anything but StatusOK carries a message.
const (
	StatusOK           = "ok"
	StatusUnauthorized = "unauthorized"
	StatusUnavailable  = "unavailable"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STANDWATCH_PROVIDER",
	MagicCookieValue: "standwatch",
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (codec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(codec{})
}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Detail  string `json:"detail"`
}

// SamplesRequest bounds are unix nanoseconds, From inclusive and To exclusive.
type SamplesRequest struct {
	FromUnixNano int64 `json:"from_unix_nano"`
	ToUnixNano   int64 `json:"to_unix_nano"`
}

type WireSample struct {
	StartUnixNano   int64   `json:"start_unix_nano"`
	EndUnixNano     int64   `json:"end_unix_nano"`
	DurationMinutes float64 `json:"duration_minutes"`
}

type SamplesReply struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Samples []WireSample `json:"samples"`
}

// Provider is served by plugin binaries and implemented by Client on the host.
type Provider interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	FetchSamples(ctx context.Context, req *SamplesRequest) (*SamplesReply, error)
}

type Client struct {
	conn *grpc.ClientConn
}

func (c *Client) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	return out, c.invoke(ctx, "GetMetadata", &struct{}{}, out)
}

func (c *Client) FetchSamples(ctx context.Context, req *SamplesRequest) (*SamplesReply, error) {
	out := &SamplesReply{}
	return out, c.invoke(ctx, "FetchSamples", req, out)
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, "/"+serviceName+"/"+method, in, out, grpc.CallContentSubtype(codecName))
}

func register(server grpc.ServiceRegistrar, impl Provider) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*Provider)(nil),
		Methods: []grpc.MethodDesc{
			unary("GetMetadata", func(ctx context.Context, _ *struct{}) (any, error) {
				return impl.GetMetadata(ctx)
			}),
			unary("FetchSamples", func(ctx context.Context, req *SamplesRequest) (any, error) {
				return impl.FetchSamples(ctx, req)
			}),
		},
	}, impl)
}

func unary[Req any](method string, call func(context.Context, *Req) (any, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, req, info, func(ctx context.Context, r any) (any, error) {
				return call(ctx, r.(*Req))
			})
		},
	}
}

type providerPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	impl Provider
}

func (p *providerPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	register(server, p.impl)
	return nil
}

func (p *providerPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return &Client{conn: conn}, nil
}

// PluginMap serves impl in a provider binary. The host passes nil.
func PluginMap(impl Provider) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{PluginMapKey: &providerPlugin{impl: impl}}
}
