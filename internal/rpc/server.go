package rpc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/request"
)

// #region server
// Server implements EvaluatorServer over a productivity engine.
type Server struct {
	engine  *productivity.Engine
	traceDB *sql.DB
}

// NewServer creates an Evaluator service. traceDB may be nil.
func NewServer(engine *productivity.Engine, traceDB *sql.DB) *Server {
	return &Server{engine: engine, traceDB: traceDB}
}

// Evaluate scores one request. Set "explain": true to receive the trace.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	explain, _ := fields["explain"].(bool)
	delete(fields, "explain")

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	in, err := request.Decode(body)
	if errors.Is(err, request.ErrIncomplete) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	res, trace := s.engine.Explain(in)
	s.logTrace(trace)

	out := map[string]interface{}{
		"score":          res.Score,
		"category":       string(res.Category),
		"recommendation": res.Recommendation,
	}
	if explain {
		t, err := toMap(trace)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode trace: %v", err)
		}
		out["trace"] = t
	}
	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func (s *Server) logTrace(trace productivity.Trace) {
	if s.traceDB == nil {
		return
	}
	entry, err := logging.NewTraceEntry("", logging.TriggerGRPC, trace, trace.Result.Score, string(trace.Result.Category))
	if err == nil {
		err = logging.LogEvaluation(s.traceDB, entry)
	}
	if err != nil {
		logrus.WithError(err).Warn("evaluation trace not recorded")
	}
}

// toMap round-trips v through JSON so structpb can hold it.
func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// #endregion server

// #region register
// NewGRPCServer builds a grpc.Server with the Evaluator and health services
// registered and a logging interceptor installed.
func NewGRPCServer(srv EvaluatorServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary))
	gs := grpc.NewServer(opts...)
	gs.RegisterService(&ServiceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := logrus.WithFields(logrus.Fields{
		"method":   info.FullMethod,
		"code":     status.Code(err).String(),
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("rpc failed")
	} else {
		entry.Debug("rpc")
	}
	return resp, err
}

// #endregion register
