// Package grpc exposes the credential service over gRPC: AuthService
// handlers, request logging and panic recovery interceptors, the standard
// health service and server reflection.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authservice/internal/logging"
	pb "github.com/dmitrijs2005/authservice/internal/proto"
	"github.com/dmitrijs2005/authservice/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CredentialService is the business logic the handlers delegate to.
type CredentialService interface {
	Register(ctx context.Context, login, password string) (*services.RegisterResult, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.LoginResult, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address     string
	credentials CredentialService
	logger      logging.Logger
	health      *health.Server
}

func NewGRPCServer(a string, l logging.Logger, cs CredentialService) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		credentials: cs,
		health:      health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.recoveryInterceptor))

	pb.RegisterAuthServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(pb.AuthService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully and reports NOT_SERVING to health checks.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
