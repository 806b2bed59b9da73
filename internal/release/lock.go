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

package release

import (
	"fmt"
	"os"
	"path/filepath"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
)

// Lock is an exclusive lock over the release workflow's mutable resources
// (the version file and tag namespace). It is held from before the guard
// phase until the workflow finishes or aborts, so two concurrent releases
// cannot race on the version file or tag creation.
type Lock struct {
	path string
}

// AcquireLock takes the lock by creating the lock file exclusively. A
// surviving lock file means another release is running (or died without
// cleanup, which the error message tells the operator how to resolve).
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("lock file %s exists (remove it if no release is running): %w",
				path, shiperrors.ErrReleaseInProgress)
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	fmt.Fprintf(file, "%d\n", os.Getpid())
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
