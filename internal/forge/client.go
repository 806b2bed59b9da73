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

// Package forge checks the remote forge for existing tags and releases
// before the workflow mutates anything. The check catches the case where a
// version was already released from another clone, which the local tag
// guard cannot see.
//
// All forge operations are reads, so unlike the tag push and the artifact
// upload they are safe to retry on transient failures.
package forge

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/giterror"
	"github.com/shipkithq/shipkit/pkg/version"
)

// Client defines the read-only forge queries the release guards need.
// This interface allows for easy mocking in tests.
type Client interface {
	// TagExists reports whether the remote repository already has the tag.
	TagExists(ctx context.Context, tag string) (bool, error)

	// ReleaseExists reports whether a published release is attached to the tag.
	ReleaseExists(ctx context.Context, tag string) (bool, error)
}

// GraphQLClient implements Client against the forge's GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	owner     string
	repo      string
	inspector giterror.Inspector
}

// NewGraphQLClient creates a forge client for one repository. The token is
// attached to every request; the endpoint is configurable for enterprise
// deployments.
func NewGraphQLClient(token, endpoint, owner, repo string) *GraphQLClient {
	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base: &http.Transport{
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		owner:     owner,
		repo:      repo,
		inspector: giterror.NewInspector(),
	}
}

// TagExists queries the remote for the tag ref. A null ref means the tag
// does not exist remotely.
func (c *GraphQLClient) TagExists(ctx context.Context, tag string) (bool, error) {
	var query struct {
		Repository struct {
			Ref struct {
				Name graphql.String
			} `graphql:"ref(qualifiedName: $ref)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(c.owner),
		"repo":  graphql.String(c.repo),
		"ref":   graphql.String("refs/tags/" + tag),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return false, c.mapError(err)
	}

	return string(query.Repository.Ref.Name) != "", nil
}

// ReleaseExists queries the remote for a release object attached to the tag.
func (c *GraphQLClient) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	var query struct {
		Repository struct {
			Release struct {
				TagName graphql.String
			} `graphql:"release(tagName: $tag)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(c.owner),
		"repo":  graphql.String(c.repo),
		"tag":   graphql.String(tag),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return false, c.mapError(err)
	}

	return string(query.Repository.Release.TagName) != "", nil
}

// mapError translates forge API failures to the workflow's sentinel errors.
func (c *GraphQLClient) mapError(err error) error {
	switch {
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("forge %s/%s: %v: %w", c.owner, c.repo, err, shiperrors.ErrAuthFailed)
	case c.inspector.IsNotFoundError(err):
		return fmt.Errorf("forge repository %s/%s not found: %v", c.owner, c.repo, err)
	case c.inspector.IsNetworkError(err):
		return fmt.Errorf("forge %s/%s: %v: %w", c.owner, c.repo, err, shiperrors.ErrNetworkFailure)
	}
	return fmt.Errorf("forge %s/%s: %w", c.owner, c.repo, err)
}

// authTransport adds authentication and identification headers to forge
// API requests.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req.Header.Set("Authorization", "bearer "+t.token)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("shipkit/%s", version.Version))
	return t.base.RoundTrip(req)
}
