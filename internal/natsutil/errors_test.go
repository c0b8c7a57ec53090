package natsutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"nats timeout", nats.ErrTimeout, true},
		{"wrapped no servers", fmt.Errorf("connect: %w", nats.ErrNoServers), true},
		{"deadline", context.DeadlineExceeded, true},
		{"no stream response", jetstream.ErrNoStreamResponse, true},
		{"connection refused text", errors.New("dial tcp 127.0.0.1:4222: connection refused"), true},
		{"invalid bucket", jetstream.ErrInvalidBucketName, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}
