package camunda

import (
	stderrors "errors"
	"testing"

	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/errors"

	"github.com/stretchr/testify/assert"
)

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{"connection refused", stderrors.New("rpc error: connection refused"), errors.ErrCodeWorkflowEngine, true},
		{"deadline", stderrors.New("context deadline exceeded"), errors.ErrCodeWorkflowEngine, true},
		{"not found", stderrors.New("job not found"), errors.ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapZeebeError(tt.err, "complete", 2)
			std := errors.AsStandardError(mapped)
			assert.Equal(t, tt.code, std.Code)
			assert.Equal(t, tt.retryable, std.Retryable)
			assert.Equal(t, "complete", std.Metadata["operation"])
			assert.Contains(t, std.Details, "after 3 attempts")
			assert.True(t, stderrors.Is(mapped, tt.err))
		})
	}
}

func TestClientConfigFrom(t *testing.T) {
	cc := ClientConfigFrom(config.Default().Camunda)
	assert.Equal(t, "localhost:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, config.GetDuration(30000), cc.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)
}
