package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// #region client-struct
// DefaultTimeout bounds calls whose context has no deadline.
const DefaultTimeout = 5 * time.Second

// Client calls a remote Evaluator service.
type Client struct {
	conn    *grpc.ClientConn
	invoker grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to an Evaluator gRPC server.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, invoker: conn}, nil
}

// NewClientWithConn wraps an existing connection. Close is then a no-op.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{invoker: cc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region evaluate
// Evaluate sends one input to the remote engine.
func (c *Client) Evaluate(ctx context.Context, in productivity.Input) (productivity.Result, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req, err := structpb.NewStruct(map[string]interface{}{
		"duration":          in.Duration,
		"interruptions":     string(in.Interruptions),
		"target":            string(in.Target),
		"tasks_completed":   in.TasksCompleted,
		"study_time_of_day": string(in.StudyTimeOfDay),
	})
	if err != nil {
		return productivity.Result{}, fmt.Errorf("encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.invoker.Invoke(ctx, EvaluateMethod, req, resp); err != nil {
		return productivity.Result{}, fmt.Errorf("evaluate rpc: %w", err)
	}

	f := resp.GetFields()
	return productivity.Result{
		Score:          int(f["score"].GetNumberValue()),
		Category:       productivity.Category(f["category"].GetStringValue()),
		Recommendation: f["recommendation"].GetStringValue(),
	}, nil
}

// #endregion evaluate

// #region health
// Health returns the serving status of the Evaluator service.
func (c *Client) Health(ctx context.Context) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	resp, err := healthpb.NewHealthClient(c.invoker).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return "", fmt.Errorf("health rpc: %w", err)
	}
	return resp.GetStatus().String(), nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}

// #endregion health
