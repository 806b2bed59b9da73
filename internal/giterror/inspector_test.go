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
	"fmt"
	"testing"
)

func TestGitErrorInspector(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{
			name:  "tag already exists",
			err:   errors.New("fatal: tag 'v0.4.0' already exists"),
			check: inspector.IsTagExistsError,
			want:  true,
		},
		{
			name:  "rejected push",
			err:   errors.New("error: failed to push some refs to 'origin'"),
			check: inspector.IsRejectedPushError,
			want:  true,
		},
		{
			name:  "non fast forward",
			err:   errors.New("! [rejected] main -> main (non-fast-forward)"),
			check: inspector.IsRejectedPushError,
			want:  true,
		},
		{
			name:  "unresolvable host",
			err:   errors.New("fatal: unable to access 'https://example.com/': Could not resolve host: example.com"),
			check: inspector.IsNetworkError,
			want:  true,
		},
		{
			name:  "remote hung up",
			err:   errors.New("fatal: Could not read from remote repository."),
			check: inspector.IsNetworkError,
			want:  true,
		},
		{
			name:  "auth failure",
			err:   errors.New("remote: Invalid credentials"),
			check: inspector.IsAuthError,
			want:  true,
		},
		{
			name:  "http forbidden",
			err:   fmt.Errorf("upload returned status 403 Forbidden"),
			check: inspector.IsAuthError,
			want:  true,
		},
		{
			name:  "missing repository",
			err:   errors.New("fatal: repository does not exist"),
			check: inspector.IsNotFoundError,
			want:  true,
		},
		{
			name:  "unrelated error is not network",
			err:   errors.New("exit status 128"),
			check: inspector.IsNetworkError,
			want:  false,
		},
		{
			name:  "nil error",
			err:   nil,
			check: inspector.IsTagExistsError,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, want %v for %v", got, tt.want, tt.err)
			}
		})
	}
}

// typedNetworkError carries its classification in the type rather than the text.
type typedNetworkError struct{}

func (typedNetworkError) Error() string        { return "wrapped failure" }
func (typedNetworkError) IsNetworkError() bool { return true }

func TestErrorChainInspector(t *testing.T) {
	inspector := NewErrorChainInspector(NewInspector())

	wrapped := fmt.Errorf("pushing tag: %w", typedNetworkError{})
	if !inspector.IsNetworkError(wrapped) {
		t.Error("typed error in chain not detected as network error")
	}

	// Falls back to string matching when the chain carries no type info.
	if !inspector.IsTagExistsError(errors.New("fatal: tag 'v1.0.0' already exists")) {
		t.Error("string fallback not applied")
	}
}
