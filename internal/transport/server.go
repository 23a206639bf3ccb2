package transport

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/internal/oracle"
)

type Server struct {
	grpc *grpc.Server
	lis  net.Listener
}

// ServerOption configures the Oracle service.
type ServerOption func(*oracleService)

// WithClassPredictor serves m on the Classify method. Without it Classify
// answers Unimplemented.
func WithClassPredictor(m oracle.ClassPredictor) ServerOption {
	return func(s *oracleService) { s.model = m }
}

// StartServer listens on port and exposes o as the Oracle service.
// Call Serve to start accepting requests.
func StartServer(port int, o oracle.Oracle, opts ...ServerOption) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, o, opts...), nil
}

// NewServer exposes o on an existing listener.
func NewServer(lis net.Listener, o oracle.Oracle, opts ...ServerOption) *Server {
	svc := &oracleService{o: o}
	for _, opt := range opts {
		opt(svc)
	}
	s := &Server{
		grpc: grpc.NewServer(),
		lis:  lis,
	}
	s.grpc.RegisterService(&oracleServiceDesc, svc)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

type oracleService struct {
	o     oracle.Oracle
	model oracle.ClassPredictor
}

func (s *oracleService) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, ds, err := decodeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	logging.L().Debug("predict", "domain", kind, "elements", ds.Len())
	out, err := s.o.Invoke(ctx, kind, ds)
	if err != nil {
		if domain.IsErrorType[domain.DomainMismatchError](err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	resp, err := encodeOutputs(out)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *oracleService) Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.model == nil {
		return nil, status.Error(codes.Unimplemented, "no classifier model is served")
	}
	in, err := decodeTensors(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	logging.L().Debug("classify", "tensors", len(in))
	classes, err := s.model.PredictClasses(ctx, in)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if len(classes) != len(in) {
		return nil, status.Error(codes.Internal, domain.LengthMismatchError{What: "classes", Want: len(in), Got: len(classes)}.Error())
	}
	return encodeClasses(classes), nil
}
