package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *CredentialsRequest) (*TokenReply, error) {
	tok, err := s.auth.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return tokenReply(tok), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *CredentialsRequest) (*TokenReply, error) {
	tok, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return tokenReply(tok), nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *WhoAmIRequest) (*AccountReply, error) {
	account, ok := accountFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return &AccountReply{ID: account.ID, Email: account.Email, CreatedAt: account.CreatedAt}, nil
}

func tokenReply(t *services.Token) *TokenReply {
	return &TokenReply{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresIn: int64(t.ExpiresIn / time.Second)}
}

// toStatus mirrors the HTTP mapping: no internals leak to the caller.
func toStatus(err error) error {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, strings.Join(ve.Violations, "; "))
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, "incorrect email or password")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid authentication credentials")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
