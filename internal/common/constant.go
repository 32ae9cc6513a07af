package common

const (
	// AccessTokenHeaderName is the gRPC metadata key used to carry the
	// access token on outbound requests.
	AccessTokenHeaderName = "access_token"

	// AuthorizationHeader and BearerScheme describe how HTTP clients present
	// the session token.
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"

	// TokenType is reported to clients alongside issued tokens.
	TokenType = "bearer"

	// Validation codes reported in ValidationError.Code.
	CodeWeakPassword   = "weak_password"
	CodeInvalidRequest = "invalid_request"
)
