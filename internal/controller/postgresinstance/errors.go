/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package postgresinstance

import (
	"errors"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// terminalError marks an error that retrying cannot fix. It is recorded in
// status and the instance is not requeued for it; only a spec change clears
// the condition.
type terminalError struct {
	reason string
	err    error
}

func (e *terminalError) Error() string { return e.err.Error() }
func (e *terminalError) Unwrap() error { return e.err }

// newTerminalError wraps err with a condition reason.
func newTerminalError(reason string, err error) error {
	return &terminalError{reason: reason, err: err}
}

// isTerminal reports whether err requires a spec change to clear. API errors
// caused by the object itself being invalid or the operator lacking
// permission are terminal too; conflicts, timeouts and throttling are not.
func isTerminal(err error) bool {
	var te *terminalError
	if errors.As(err, &te) {
		return true
	}
	return apierrors.IsInvalid(err) || apierrors.IsForbidden(err) || apierrors.IsBadRequest(err)
}

// terminalReason returns the condition reason carried by a terminal error,
// or ReasonTerminalError for API-level terminal failures.
func terminalReason(err error) string {
	var te *terminalError
	if errors.As(err, &te) {
		return te.reason
	}
	return "TerminalError"
}

// errorClass labels an error for metrics.
func errorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case isTerminal(err):
		return "terminal"
	case apierrors.IsConflict(err):
		return "conflict"
	case apierrors.IsTooManyRequests(err):
		return "throttled"
	default:
		return "transient"
	}
}

// retryDelay returns an explicit requeue delay for errors where the server
// told us how long to back off. Zero means let the rate limiter decide.
func retryDelay(err error) time.Duration {
	if seconds, ok := apierrors.SuggestsClientDelay(err); ok {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
