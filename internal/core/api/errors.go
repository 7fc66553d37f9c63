package api

// Error mapping:
// ErrInvalidJSON and ErrInvalidInputKind map to INVALID_ARGUMENT.
// Missing or malformed request fields map to INVALID_ARGUMENT.
// Authentication failures are mapped by auth.BearerInterceptor.
// Anything else maps to INTERNAL.

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidJSON), errors.Is(err, types.ErrInvalidInputKind):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return internalError(err)
	}
}

func invalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

func internalError(err error) error {
	return status.Error(codes.Internal, err.Error())
}
