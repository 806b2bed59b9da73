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

package forge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
)

// RetryConfig configures the retry behavior for forge queries.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a forge client with automatic retry for transient
// network errors using exponential backoff. Only read queries flow through
// this client, so retrying is always safe.
type RetryClient struct {
	client Client
	config *RetryConfig
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{client: client, config: config}
}

// TagExists implements Client with retry logic.
func (r *RetryClient) TagExists(ctx context.Context, tag string) (bool, error) {
	var exists bool
	err := r.retry(ctx, func() error {
		var qErr error
		exists, qErr = r.client.TagExists(ctx, tag)
		return qErr
	})
	return exists, err
}

// ReleaseExists implements Client with retry logic.
func (r *RetryClient) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	var exists bool
	err := r.retry(ctx, func() error {
		var qErr error
		exists, qErr = r.client.ReleaseExists(ctx, tag)
		return qErr
	})
	return exists, err
}

// retry runs fn until it succeeds, hits a non-retryable error, or exhausts
// the configured attempts.
func (r *RetryClient) retry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		// Only transient network failures are worth another attempt.
		if !errors.Is(err, shiperrors.ErrNetworkFailure) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		fmt.Fprintf(os.Stderr, "forge query failed, retrying in %v (attempt %d/%d)...\n",
			backoff, attempt+1, r.config.MaxRetries)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateBackoff returns the exponential backoff duration for an attempt,
// capped at MaxBackoff.
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))
	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}
	return time.Duration(backoff)
}
