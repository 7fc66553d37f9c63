package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://ceres.example.org/graphql", want: "https://ceres.example.org/auth/me"},
		{in: "http://localhost:4000/api/graphql", want: "http://localhost:4000/api/auth/me"},
		{in: "https://ceres.example.org/query", want: "https://ceres.example.org/query"},
	}
	for _, tt := range tests {
		if got := AuthURL(tt.in); got != tt.want {
			t.Errorf("AuthURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTTPClient_MissingToken(t *testing.T) {
	if _, err := HTTPClient(context.Background(), "  ", time.Second); !errors.Is(err, ErrMissingToken) {
		t.Errorf("HTTPClient() error = %v, want ErrMissingToken", err)
	}
}

func TestCheckCredentials(t *testing.T) {
	const token = "header.payload.signature"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer " + token:
			w.Write([]byte(`{"id": "user-1"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "accepted", token: token, wantErr: nil},
		{name: "rejected", token: "wrong", wantErr: ErrInvalidCredentials},
		{name: "server error", token: "broken", wantErr: ErrAuthUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := HTTPClient(context.Background(), tt.token, 5*time.Second)
			if err != nil {
				t.Fatalf("HTTPClient() error = %v", err)
			}
			err = CheckCredentials(context.Background(), client, srv.URL+"/graphql")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckCredentials() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckCredentials_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/graphql"
	srv.Close()

	client, _ := HTTPClient(context.Background(), "token", time.Second)
	if err := CheckCredentials(context.Background(), client, url); !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("CheckCredentials() error = %v, want ErrAuthUnavailable", err)
	}
}

func TestBearerInterceptor(t *testing.T) {
	interceptor := BearerInterceptor([]string{"token-one-0123456", "token-two-0123456"})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/gbapi.v1.FlattenService/Flatten"}

	tests := []struct {
		name     string
		ctx      context.Context
		wantCode codes.Code
	}{
		{
			name:     "no metadata",
			ctx:      context.Background(),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "missing header",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-other", "1")),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "wrong scheme",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic token-one-0123456")),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "unknown token",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope")),
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "accepted rotated token",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "bearer token-two-0123456")),
			wantCode: codes.OK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := interceptor(tt.ctx, nil, info, handler)
			if got := status.Code(err); got != tt.wantCode {
				t.Fatalf("code = %s, want %s (err %v)", got, tt.wantCode, err)
			}
			if tt.wantCode == codes.OK && resp != "ok" {
				t.Errorf("handler not invoked, resp = %v", resp)
			}
		})
	}
}

func TestBearerInterceptor_Disabled(t *testing.T) {
	interceptor := BearerInterceptor(nil)
	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Errorf("disabled interceptor = %v, %v", resp, err)
	}
}

func TestBearerInterceptor_HealthExempt(t *testing.T) {
	interceptor := BearerInterceptor([]string{"token-one-0123456"})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	tests := []struct {
		method   string
		wantCode codes.Code
	}{
		{method: "/grpc.health.v1.Health/Check", wantCode: codes.OK},
		{method: "/grpc.health.v1.Health/List", wantCode: codes.OK},
		{method: "/gbapi.v1.FlattenService/Flatten", wantCode: codes.Unauthenticated},
		{method: "/grpc.health.v1.HealthX/Check", wantCode: codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			if got := status.Code(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s (err %v)", got, tt.wantCode, err)
			}
		})
	}
}
