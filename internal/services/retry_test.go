package services

import (
	"context"
	"errors"
	"testing"

	"ecomstore/internal/apiclient"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"first try", []error{nil}, 1, false},
		{"recovers", []error{&apiclient.APIError{StatusCode: 503}, nil}, 2, false},
		{"network errors retried", []error{&apiclient.APIError{Message: "Network error"}, &apiclient.APIError{}, &apiclient.APIError{}}, 3, true},
		{"client error not retried", []error{&apiclient.APIError{StatusCode: 404}}, 1, true},
		{"rate limit retried", []error{&apiclient.APIError{StatusCode: 429}, nil}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), fastRetry, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, fastRetry, func() error {
		calls++
		return nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, calls)
}
