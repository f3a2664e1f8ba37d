package core

import "errors"

var (
	// ErrStorageUnavailable is the only failure allowed to escape to the
	// transport layer; it fails the whole inbound event so the platform
	// redelivers it. Treating a ledger failure as "not duplicate" would
	// risk duplicate completion calls.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRateLimited and ErrUpstreamFailure classify completion-service
	// failures. The core treats both identically: they are absorbed into
	// a fixed apology reply and never surface as transport errors.
	ErrRateLimited     = errors.New("completion service rate limited")
	ErrUpstreamFailure = errors.New("completion service failed")

	// ErrAnswerNotReady signals that a redelivered event's answer has not
	// been persisted yet; the redelivery path polls on it.
	ErrAnswerNotReady = errors.New("answer not ready")
)
