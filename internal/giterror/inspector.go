// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package giterror

import (
	"errors"
	"strings"
)

// Inspector provides methods for analyzing git and package index errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or
	// authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a missing remote,
	// repository, or endpoint.
	IsNotFoundError(err error) bool

	// IsTagExistsError returns true if the error indicates the tag already
	// exists, locally or on the remote.
	IsTagExistsError(err error) bool

	// IsRejectedPushError returns true if the remote rejected the push.
	IsRejectedPushError(err error) bool

	// IsNetworkError returns true if the error represents a network
	// connectivity problem.
	IsNetworkError(err error) bool
}

// GitErrorInspector implements the Inspector interface against the stderr
// text produced by the git CLI and the status text of HTTP index responses.
type GitErrorInspector struct{}

// NewInspector creates a new GitErrorInspector.
func NewInspector() Inspector {
	return &GitErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "authentication failed") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "invalid credentials")
}

// IsNotFoundError checks if the error is a missing-target error.
func (i *GitErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "repository does not exist") ||
		strings.Contains(errStr, "does not appear to be a git repository")
}

// IsTagExistsError checks if the error indicates a duplicate tag.
func (i *GitErrorInspector) IsTagExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "already exists")
}

// IsRejectedPushError checks if the remote rejected the push.
func (i *GitErrorInspector) IsRejectedPushError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "failed to push some refs") ||
		strings.Contains(errStr, "[rejected]") ||
		strings.Contains(errStr, "non-fast-forward") ||
		strings.Contains(errStr, "pre-receive hook declined")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "could not resolve host") ||
		strings.Contains(errStr, "could not read from remote repository") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// ErrorChainInspector wraps a base inspector and adds support for checking
// errors in the error chain using errors.As before falling back to
// string-based inspection.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	return e.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	return e.base.IsNotFoundError(err)
}

// IsTagExistsError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsTagExistsError(err error) bool {
	var tagErr interface{ IsTagExistsError() bool }
	if errors.As(err, &tagErr) && tagErr.IsTagExistsError() {
		return true
	}
	return e.base.IsTagExistsError(err)
}

// IsRejectedPushError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRejectedPushError(err error) bool {
	var pushErr interface{ IsRejectedPushError() bool }
	if errors.As(err, &pushErr) && pushErr.IsRejectedPushError() {
		return true
	}
	return e.base.IsRejectedPushError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	return e.base.IsNetworkError(err)
}
