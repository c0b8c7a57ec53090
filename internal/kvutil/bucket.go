// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/leadroute/internal/natsutil"
)

const baseBackoff = 10 * time.Millisecond

// EnsureBucket creates a KV bucket or opens it if it already exists.
//
// Several engine replicas may race to create the roster and audit buckets at startup;
// losing the race is not an error. Connectivity failures are retried with exponential
// backoff (10ms, 20ms, 40ms, ...); any other failure is returned at once.
//
// Parameters:
//   - ctx: Context for timeout and cancellation
//   - js: JetStream context
//   - config: Bucket configuration
//   - maxRetries: Maximum attempts (3 if <= 0)
//
// Returns:
//   - jetstream.KeyValue: The bucket
//   - error: Last error after all attempts, or the context error
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "leadroute-roster"}, 3)
func EnsureBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	maxRetries int,
) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := range maxRetries {
		kv, err := openOrCreate(ctx, js, config)
		if err == nil {
			return kv, nil
		}
		lastErr = err

		if !natsutil.IsConnectivityError(err) {
			return nil, fmt.Errorf("failed to create/open KV bucket %s: %w", config.Bucket, err)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while ensuring bucket %s: %w", config.Bucket, ctx.Err())
		}
		if attempt == maxRetries-1 {
			break
		}

		timer := time.NewTimer(baseBackoff << attempt) //nolint:gosec // attempt is bounded by maxRetries
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("context cancelled while ensuring bucket %s: %w", config.Bucket, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}

func openOrCreate(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	kv, err := js.CreateKeyValue(ctx, config)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketExists) {
		return nil, err
	}

	kv, err = js.KeyValue(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket exists but failed to open: %w", err)
	}

	return kv, nil
}
