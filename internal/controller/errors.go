package controller

import (
	"errors"
	"fmt"
)

// ConnectivityError indicates the controller could not be reached at all:
// DNS failure, refused connection, timeout. Retrying may help.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("failed to reach controller at %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity checks if an error is or wraps a ConnectivityError.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// AuthorizationError indicates the controller rejected the bearer token
// (401/403-class response). Retrying will not help until the credential is
// replaced.
type AuthorizationError struct {
	StatusCode int
	URL        string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("controller rejected credentials (HTTP %d) at %s", e.StatusCode, e.URL)
}

// IsAuthorization checks if an error is or wraps an AuthorizationError.
func IsAuthorization(err error) bool {
	var authErr *AuthorizationError
	return errors.As(err, &authErr)
}

// ProtocolError indicates the controller answered with an unexpected status
// or a body that could not be decoded.
type ProtocolError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unexpected controller response (HTTP %d) at %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("unexpected controller response at %s: %s", e.URL, e.Message)
}

// IsProtocol checks if an error is or wraps a ProtocolError.
func IsProtocol(err error) bool {
	var protoErr *ProtocolError
	return errors.As(err, &protoErr)
}

// NotFoundError indicates a resource the caller named does not exist on the
// controller.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}
