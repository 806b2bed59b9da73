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

// Package index builds the distributable artifact and uploads it to the
// package index. The build step runs the configured build command; the
// upload step performs a multipart POST with token authentication.
//
// Uploads are deliberately not retried: publishing is a mutating operation
// and a blind retry after an ambiguous failure could double-publish. Upload
// failures are surfaced to the operator, who resolves the
// tagged-but-not-bumped state manually or with `release --resume`.
package index

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/giterror"
)

// maxResponseBytes caps how much of an index error response is read back
// for diagnostics.
const maxResponseBytes = 64 * 1024

// Client uploads artifacts to a package index over HTTPS.
type Client struct {
	endpoint   string
	httpClient *http.Client
	inspector  giterror.Inspector
}

// NewClient creates an index client for the given upload endpoint. The
// token is attached to every request as a bearer credential.
func NewClient(endpoint, token string) *Client {
	transport := &http.Transport{
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: &authTransport{
				token: token,
				base:  transport,
			},
		},
		inspector: giterror.NewInspector(),
	}
}

// UploadMetadata accompanies an artifact upload so the index can register
// the file under the right project and version.
type UploadMetadata struct {
	Project string
	Version string
}

// Upload posts one artifact file to the index as a multipart form. The form
// carries the project name, the version, and the file content, matching
// the convention of simple upload endpoints.
func (c *Client) Upload(ctx context.Context, artifactPath string, meta UploadMetadata) error {
	file, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", artifactPath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("name", meta.Project); err != nil {
		return fmt.Errorf("encode upload form: %w", err)
	}
	if err := writer.WriteField("version", meta.Version); err != nil {
		return fmt.Errorf("encode upload form: %w", err)
	}
	part, err := writer.CreateFormFile("content", filepath.Base(artifactPath))
	if err != nil {
		return fmt.Errorf("encode upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read artifact %s: %w", artifactPath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.inspector.IsNetworkError(err) {
			return fmt.Errorf("upload %s: %v: %w", filepath.Base(artifactPath), err, shiperrors.ErrNetworkFailure)
		}
		return fmt.Errorf("upload %s: %v: %w", filepath.Base(artifactPath), err, shiperrors.ErrUploadFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	msg := strings.TrimSpace(string(detail))
	if msg == "" {
		msg = resp.Status
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("index rejected upload (%s): %s: %w", resp.Status, msg, shiperrors.ErrAuthFailed)
	}
	return fmt.Errorf("index rejected upload (%s): %s: %w", resp.Status, msg, shiperrors.ErrUploadFailed)
}

// Builder runs the configured build command and locates the resulting
// artifacts.
type Builder struct {
	dir         string
	command     []string
	artifactDir string
}

// NewBuilder creates a Builder that runs command from dir and expects the
// distributable files to appear under artifactDir (relative to dir).
func NewBuilder(dir string, command []string, artifactDir string) *Builder {
	return &Builder{dir: dir, command: command, artifactDir: artifactDir}
}

// Build runs the build command and returns the paths of the produced
// artifacts, newest directory listing order normalized to lexical order so
// runs are reproducible. Files already present in the artifact directory
// before the build are treated as artifacts too; operators clean the
// directory between releases if that matters to them.
func (b *Builder) Build(ctx context.Context) ([]string, error) {
	if len(b.command) == 0 {
		return nil, fmt.Errorf("no build command configured: %w", shiperrors.ErrConfig)
	}

	cmd := exec.CommandContext(ctx, b.command[0], b.command[1:]...)
	cmd.Dir = b.dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("build command %q: %v: %s", strings.Join(b.command, " "), err, strings.TrimSpace(string(out)))
	}

	dist := filepath.Join(b.dir, b.artifactDir)
	entries, err := os.ReadDir(dist)
	if err != nil {
		return nil, fmt.Errorf("read artifact dir %s: %w", dist, err)
	}

	var artifacts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		artifacts = append(artifacts, filepath.Join(dist, entry.Name()))
	}
	sort.Strings(artifacts)

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("build produced no artifacts in %s", dist)
	}
	return artifacts, nil
}
