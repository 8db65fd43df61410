package reasoning

import "errors"

var (
	// ErrConfiguration indicates the client cannot issue requests, such as
	// when no credential is configured. It is raised before any network call.
	ErrConfiguration = errors.New("reasoning service misconfigured")
	// ErrTransport indicates the request failed in transit or the service
	// answered with a non-success status.
	ErrTransport = errors.New("reasoning service request failed")
)
