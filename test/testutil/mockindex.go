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
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ReceivedUpload captures one artifact upload accepted by the mock index.
type ReceivedUpload struct {
	Project  string
	Version  string
	Filename string
	Token    string
}

// MockIndex is a fake package index that records multipart uploads.
type MockIndex struct {
	Server *httptest.Server

	mu       sync.Mutex
	uploads  []ReceivedUpload
	failWith int // non-zero: respond with this status instead of accepting
}

// NewMockIndex starts a mock package index. The caller must call Close.
func NewMockIndex(t *testing.T) *MockIndex {
	t.Helper()

	m := &MockIndex{}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handleUpload))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the upload endpoint.
func (m *MockIndex) URL() string {
	return m.Server.URL
}

// FailWith makes subsequent uploads fail with the given HTTP status.
// Passing 0 restores normal behavior.
func (m *MockIndex) FailWith(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = status
}

// Uploads returns a copy of the accepted uploads.
func (m *MockIndex) Uploads() []ReceivedUpload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReceivedUpload(nil), m.uploads...)
}

func (m *MockIndex) handleUpload(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	failWith := m.failWith
	m.mu.Unlock()

	if failWith != 0 {
		http.Error(w, "index unavailable", failWith)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}

	upload := ReceivedUpload{
		Project: r.FormValue("name"),
		Version: r.FormValue("version"),
		Token:   r.Header.Get("Authorization"),
	}
	if files := r.MultipartForm.File["content"]; len(files) > 0 {
		upload.Filename = files[0].Filename
	}

	m.mu.Lock()
	m.uploads = append(m.uploads, upload)
	m.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}
