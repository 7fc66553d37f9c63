package graphql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRequestFailed   = errors.New("graphql request failed")
	ErrInvalidResponse = errors.New("graphql response is not a JSON object")
	ErrGraphQL         = errors.New("graphql errors in response")
)

// StatusError reports a non-2xx HTTP status from the endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("query failed to run by returning code of %d", e.Code)
	}
	return fmt.Sprintf("query failed to run by returning code of %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

// GraphQLError carries the messages of a response that has errors and no data.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql errors: " + strings.Join(e.Messages, "; ")
}

func (e *GraphQLError) Unwrap() error { return ErrGraphQL }
