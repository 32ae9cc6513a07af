// Package grpc serves signup, login and account lookup over gRPC, with a
// JSON message codec and the standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Authenticator interface {
	Signup(ctx context.Context, email, password string) (*services.Token, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type GRPCServer struct {
	address string
	auth    Authenticator
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(a string, l logging.Logger, auth Authenticator) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    auth,
		health:  health.NewServer(),
	}
}

// NewServer builds the grpc.Server with interceptors and services registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&AuthServiceDesc, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}
