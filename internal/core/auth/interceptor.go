package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// healthPrefix covers the gRPC health service, which liveness checks call
// without credentials.
const healthPrefix = "/grpc.health.v1.Health/"

// BearerInterceptor returns a gRPC interceptor that requires an
// "authorization: Bearer <token>" metadata entry matching one of tokens.
// With no tokens configured every request is let through. Health checks are
// always let through.
func BearerInterceptor(tokens []string) grpc.UnaryServerInterceptor {
	accepted := make([][]byte, len(tokens))
	for i, t := range tokens {
		accepted[i] = []byte(t)
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if len(accepted) == 0 || strings.HasPrefix(info.FullMethod, healthPrefix) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		token, ok := bearerToken(md.Get("authorization"))
		if !ok {
			return nil, status.Error(codes.Unauthenticated, ErrMissingBearer.Error())
		}

		// Every token is compared, with no early exit
		match := 0
		for _, a := range accepted {
			match |= subtle.ConstantTimeCompare(a, []byte(token))
		}
		if match != 1 {
			return nil, status.Error(codes.PermissionDenied, ErrUnknownBearer.Error())
		}

		return handler(ctx, req)
	}
}

// bearerToken extracts the token from the first "Bearer <token>" value.
func bearerToken(values []string) (string, bool) {
	for _, v := range values {
		scheme, token, found := strings.Cut(strings.TrimSpace(v), " ")
		if found && strings.EqualFold(scheme, "bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}
