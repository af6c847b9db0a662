package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/logging"
	"github.com/RowanDark/monocrack/internal/observability/metrics"
	"github.com/RowanDark/monocrack/internal/runner"
	"github.com/RowanDark/monocrack/internal/score"
)

// Server implements the Cracker gRPC service.
type Server struct {
	runner *runner.Runner
	logger *logging.EventLogger
}

var _ CrackerServer = (*Server)(nil)

// ServerOption configures the server.
type ServerOption func(*Server)

// WithEventLogger journals cracks and operations to logger.
func WithEventLogger(logger *logging.EventLogger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults fills the search settings a crack request leaves unset.
func WithDefaults(defaults crack.Request) ServerOption {
	return func(s *Server) {
		s.runner.Defaults = defaults
	}
}

// WithCrackTimeout bounds every crack.
func WithCrackTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.runner.Timeout = d
	}
}

// NewServer constructs the Cracker service.
func NewServer(opts ...ServerOption) *Server {
	srv := &Server{
		runner: &runner.Runner{},
		logger: logging.Discard("rpc"),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.runner.Logger = srv.logger
	return srv
}

// Crack runs a crack. The request carries the fields of crack.Request; the
// response carries those of crack.Result plus run_id.
func (s *Server) Crack(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req crack.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Ciphertext == "" {
		return nil, status.Error(codes.InvalidArgument, "ciphertext is required")
	}
	res, runID, err := s.runner.Run(ctx, req)
	if err != nil {
		return nil, statusFromError(err)
	}
	out, err := toStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out.Fields["run_id"] = structpb.NewStringValue(runID)
	return out, nil
}

// Encrypt enciphers text. The request names the cipher ("shift", "affine",
// "atbash" or "substitution"), the text and the key parameters of the
// matching operation.
func (s *Server) Encrypt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.transform(ctx, in, false)
}

// Decrypt deciphers text with a known key. It takes the same fields as
// Encrypt.
func (s *Server) Decrypt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.transform(ctx, in, true)
}

func (s *Server) transform(ctx context.Context, in *structpb.Struct, decrypt bool) (*structpb.Struct, error) {
	params := in.AsMap()
	name, _ := params["cipher"].(string)
	text, _ := params["text"].(string)
	opName, err := operationName(name, decrypt)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	op, ok := cipher.GetOperation(opName)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown cipher %q", name)
	}
	output, err := op.Execute(ctx, []byte(text), params)
	_ = s.logger.Emit(logging.Event{
		EventType: logging.EventOperationRun,
		Metadata:  map[string]any{"operation": opName, "ok": err == nil},
	})
	if err != nil {
		// Operations report bad parameters as plain errors.
		if st := statusFromError(err); status.Code(st) != codes.Internal {
			return nil, st
		}
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return structpb.NewStruct(map[string]any{"output": string(output)})
}

// operationName resolves the registered operation for a cipher family.
func operationName(family string, decrypt bool) (string, error) {
	if strings.TrimSpace(family) == "" {
		return "", errors.New("cipher is required")
	}
	name, ok := cipher.OperationName(family, decrypt)
	if !ok {
		return "", fmt.Errorf("%w: %q", crack.ErrUnknownCipher, family)
	}
	return name, nil
}

// Detect ranks the cipher families that could have produced "text".
func (s *Server) Detect(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Text == "" {
		return nil, status.Error(codes.InvalidArgument, "text is required")
	}
	model, ok := lang.Lookup(req.Language)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown language %q", req.Language)
	}
	results, err := crack.NewDetector(model).Detect(ctx, []byte(req.Text))
	_ = s.logger.Emit(logging.Event{
		EventType: logging.EventDetectionRun,
		Metadata:  map[string]any{"language": model.Name(), "results": len(results)},
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	if results == nil {
		results = []cipher.DetectionResult{}
	}
	return toStruct(map[string]any{"detections": results})
}

// statusFromError maps domain errors onto gRPC codes.
func statusFromError(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, crack.ErrUnknownCipher),
		errors.Is(err, crack.ErrUnknownLanguage),
		errors.Is(err, crack.ErrUnsupportedMetric),
		errors.Is(err, crack.ErrInvalidBudget),
		errors.Is(err, score.ErrUnknownMetric):
		code = codes.InvalidArgument
	case errors.Is(err, cipher.ErrInvalidKey):
		code = codes.FailedPrecondition
	case errors.Is(err, lang.ErrResourceUnavailable):
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

// fromStruct decodes a Struct into dst through its JSON form.
func fromStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return errors.New("request is required")
	}
	data, err := in.MarshalJSON()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// toStruct encodes v into a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return out, nil
}

// unaryMetrics records request counts, failures and latency per method.
func unaryMetrics(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	metrics.RecordRequest("grpc", info.FullMethod)
	resp, err := handler(ctx, req)
	code := status.Code(err).String()
	if err != nil {
		metrics.RecordError("grpc", info.FullMethod, code)
	}
	metrics.ObserveRequestLatency("grpc", info.FullMethod, code, time.Since(start))
	return resp, err
}

// NewGRPCServer returns a grpc.Server with the Cracker and health services
// registered.
func NewGRPCServer(srv CrackerServer) *grpc.Server {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryMetrics))
	RegisterCrackerServer(gs, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

// Serve serves srv on lis until ctx is cancelled. maxConns bounds concurrent
// connections when positive.
func Serve(ctx context.Context, lis net.Listener, srv CrackerServer, maxConns int) error {
	if maxConns > 0 {
		lis = netutil.LimitListener(lis, maxConns)
	}
	gs := NewGRPCServer(srv)

	// Stop the gRPC server once the provided context is cancelled.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		done := make(chan struct{})
		go func() {
			gs.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			gs.Stop()
		}
	}()

	err := gs.Serve(lis)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	<-stopped
	return nil
}
