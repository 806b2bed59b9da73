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

// Package gitcmd provides the git operations the release workflow needs,
// implemented by shelling out to the git CLI. The Repository interface
// allows the workflow engine to be tested against a fake without a real
// repository or network.
package gitcmd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/giterror"
)

// Repository defines the interface for git operations.
type Repository interface {
	// Head returns the full hash of the current commit.
	Head(ctx context.Context) (string, error)

	// IsClean reports whether the working tree has no modified or
	// untracked files.
	IsClean(ctx context.Context) (bool, error)

	// TagExists reports whether the given tag exists locally.
	TagExists(ctx context.Context, tag string) (bool, error)

	// CreateTag creates an annotated tag at the current commit.
	CreateTag(ctx context.Context, tag, message string) error

	// PushTag pushes a single tag to the remote.
	PushTag(ctx context.Context, remote, tag string) error

	// Add stages the given paths.
	Add(ctx context.Context, paths ...string) error

	// Commit commits the staged changes.
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch to the remote.
	Push(ctx context.Context, remote string) error
}

// CLI implements Repository by invoking the git binary in a working
// directory. All methods honor context cancellation through
// exec.CommandContext.
type CLI struct {
	dir       string
	inspector giterror.Inspector
}

// New creates a Repository rooted at dir.
func New(dir string) *CLI {
	return &CLI{
		dir:       dir,
		inspector: giterror.NewInspector(),
	}
}

// Head returns the full hash of the current commit.
func (c *CLI) Head(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsClean reports whether `git status --porcelain` produces no output.
// Untracked files count as dirty: the artifact must be reproducible from
// the tagged commit alone.
func (c *CLI) IsClean(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// TagExists reports whether the tag is present in the local repository.
func (c *CLI) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := c.run(ctx, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CreateTag creates an annotated tag at HEAD. Attempting to recreate an
// existing tag returns ErrTagExists.
func (c *CLI) CreateTag(ctx context.Context, tag, message string) error {
	_, err := c.run(ctx, "tag", "--annotate", tag, "--message", message)
	if err != nil && c.inspector.IsTagExistsError(err) {
		return fmt.Errorf("tag %s: %w", tag, shiperrors.ErrTagExists)
	}
	return err
}

// PushTag pushes a single tag ref to the remote.
func (c *CLI) PushTag(ctx context.Context, remote, tag string) error {
	_, err := c.run(ctx, "push", remote, "refs/tags/"+tag)
	return c.mapPushError(err)
}

// Add stages the given paths.
func (c *CLI) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := c.run(ctx, args...)
	return err
}

// Commit commits the staged changes.
func (c *CLI) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "--message", message)
	return err
}

// Push pushes the current branch to the remote.
func (c *CLI) Push(ctx context.Context, remote string) error {
	_, err := c.run(ctx, "push", remote)
	return c.mapPushError(err)
}

// mapPushError classifies push failures so the CLI can report the right
// exit code. Everything the remote can do to a push is transient from the
// workflow's point of view; auth failures are surfaced separately.
func (c *CLI) mapPushError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("%v: %w", err, shiperrors.ErrAuthFailed)
	case c.inspector.IsNetworkError(err), c.inspector.IsRejectedPushError(err):
		return fmt.Errorf("%v: %w", err, shiperrors.ErrPushFailed)
	}
	return err
}

// run executes git with the given arguments in the repository directory and
// returns its combined output. On failure the output is folded into the
// error so the inspector can classify it.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
