package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	ServiceName = "controlpanel.v1.AuthService"

	SignupMethod = "/" + ServiceName + "/Signup"
	LoginMethod  = "/" + ServiceName + "/Login"
	WhoAmIMethod = "/" + ServiceName + "/WhoAmI"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenReply struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type WhoAmIRequest struct{}

type AccountReply struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthServiceServer is implemented by GRPCServer.
type AuthServiceServer interface {
	Signup(ctx context.Context, req *CredentialsRequest) (*TokenReply, error)
	Login(ctx context.Context, req *CredentialsRequest) (*TokenReply, error)
	WhoAmI(ctx context.Context, req *WhoAmIRequest) (*AccountReply, error)
}

func unaryHandler[Req any, Resp any](method string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceDesc describes the service for grpc.Server.RegisterService.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Signup", Handler: unaryHandler(SignupMethod, AuthServiceServer.Signup)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, AuthServiceServer.Login)},
		{MethodName: "WhoAmI", Handler: unaryHandler(WhoAmIMethod, AuthServiceServer.WhoAmI)},
	},
	Metadata: "controlpanel/v1/auth.json",
}
