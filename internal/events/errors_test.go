package events

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), ErrConnectionRefused},
		{"timeout", context.DeadlineExceeded, ErrBrokerTimeout},
		{"closed redis", redis.ErrClosed, ErrBrokerClosed},
		{"closed client", ErrClientClosed, ErrBrokerClosed},
		{"other", errors.New("weird"), ErrBrokerUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConnectionError(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.NotEmpty(t, got.Error())
		})
	}

	assert.Nil(t, ClassifyConnectionError(nil))
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("write: broken pipe")))
	assert.True(t, isConnectionError(redis.ErrClosed))
	assert.False(t, isConnectionError(errors.New("bad payload")))
}
