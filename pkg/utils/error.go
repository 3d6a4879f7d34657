package utils

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// A task is already assigned to the worker.
	ErrAlreadyAssigned = fmt.Errorf("Task already assigned")

	// A lease address could not be parsed.
	ErrInvalidAddress = fmt.Errorf("Invalid address")

	// An operation was attempted in the wrong lifecycle state.
	ErrInvalidState = fmt.Errorf("Invalid state")

	// A caller broke an internal invariant. Indicates a scheduler bug
	// and should be treated as fatal by the calling subsystem.
	ErrInvariantViolation = fmt.Errorf("Invariant violation")

	ErrNotFound = fmt.Errorf("Not found")

	// A send to the worker process failed at the transport level.
	// Not retried here, retry policy belongs to the scheduler.
	ErrRpcSendFailure = fmt.Errorf("Rpc send failure")
)

// Convert errors to errors with grpc status codes
func GrpcError(err error) error {
	switch err {
	case ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case ErrAlreadyAssigned:
		return status.Error(codes.AlreadyExists, err.Error())
	case ErrInvalidState:
		return status.Error(codes.FailedPrecondition, err.Error())
	case ErrInvalidAddress:
		return status.Error(codes.InvalidArgument, err.Error())
	case ErrInvariantViolation:
		return status.Error(codes.Internal, err.Error())
	case ErrRpcSendFailure:
		return status.Error(codes.Unavailable, err.Error())
	}
	return err
}
