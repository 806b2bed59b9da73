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

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo is a throwaway project repository with a local bare remote,
// ready for a release run.
type GitRepo struct {
	// Dir is the working clone where releases run.
	Dir string
	// RemoteDir is the bare repository configured as origin.
	RemoteDir string

	t *testing.T
}

// NewGitRepo creates a git repository with a VERSION file reading version,
// an initial commit, and a bare origin remote that the initial branch has
// been pushed to. Tests that need git skip when it is not installed.
func NewGitRepo(t *testing.T, version string) *GitRepo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	base := t.TempDir()
	dir := filepath.Join(base, "project")
	remoteDir := filepath.Join(base, "origin.git")

	r := &GitRepo{Dir: dir, RemoteDir: remoteDir, t: t}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create project dir: %v", err)
	}
	r.git("init", "-b", "main")
	r.git("config", "user.name", "Test User")
	r.git("config", "user.email", "test@example.com")

	r.WriteFile("VERSION", version+"\n")
	r.git("add", "VERSION")
	r.git("commit", "-m", "initial commit")

	initRemote := exec.Command("git", "init", "--bare", remoteDir)
	if out, err := initRemote.CombinedOutput(); err != nil {
		t.Fatalf("init bare remote: %v: %s", err, out)
	}
	r.git("remote", "add", "origin", remoteDir)
	r.git("push", "-u", "origin", "main")

	return r
}

// WriteFile writes a file in the working clone without committing it.
func (r *GitRepo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}
}

// Commit stages everything and commits.
func (r *GitRepo) Commit(message string) {
	r.t.Helper()
	r.git("add", "-A")
	r.git("commit", "-m", message)
}

// ReadFile returns the content of a file in the working clone.
func (r *GitRepo) ReadFile(name string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		r.t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// Tag creates a lightweight tag in the working clone.
func (r *GitRepo) Tag(name string) {
	r.t.Helper()
	r.git("tag", name)
}

// HasLocalTag reports whether the working clone has the tag.
func (r *GitRepo) HasLocalTag(name string) bool {
	r.t.Helper()
	out := r.gitOutput("tag", "--list", name)
	return strings.TrimSpace(out) == name
}

// HasRemoteTag reports whether the tag was pushed to origin.
func (r *GitRepo) HasRemoteTag(name string) bool {
	r.t.Helper()
	cmd := exec.Command("git", "--git-dir", r.RemoteDir, "tag", "--list", name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("list remote tags: %v: %s", err, out)
	}
	return strings.TrimSpace(string(out)) == name
}

// RemoteHeadMessage returns the subject of the newest commit on the
// remote's main branch.
func (r *GitRepo) RemoteHeadMessage() string {
	r.t.Helper()
	cmd := exec.Command("git", "--git-dir", r.RemoteDir, "log", "-1", "--format=%s", "main")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("read remote head: %v: %s", err, out)
	}
	return strings.TrimSpace(string(out))
}

func (r *GitRepo) git(args ...string) {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, out)
	}
}

func (r *GitRepo) gitOutput(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, out)
	}
	return string(out)
}
