package errors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithMessageKeepsEarlierErrorsIntact(t *testing.T) {
	first := ErrMissingField.WithMessage("the %s field is missing", "merchantSig")
	second := ErrMissingField.WithMessage("the %s field is missing", "authResult")

	assert.Equal(t, "MISSING_FIELD: the merchantSig field is missing", first.Error())
	assert.Equal(t, "MISSING_FIELD: the authResult field is missing", second.Error())
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	err := ErrUnexpectedField.WithDetail("field", "injected")

	assert.Equal(t, "injected", err.Details["field"])
	assert.Empty(t, ErrUnexpectedField.Details)
	assert.Equal(t, "unexpected field present", ErrUnexpectedField.Message)
}

func TestWithDetailConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Error, 50)

	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = ErrMissingField.WithMessage("the %s field is missing", fmt.Sprintf("field-%d", n))
		}(i)
	}
	wg.Wait()

	for i, err := range results {
		require.NotNil(t, err)
		assert.Equal(t, fmt.Sprintf("MISSING_FIELD: the field-%d field is missing", i), err.Error())
	}
	assert.Empty(t, ErrMissingField.Details)
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrInternal.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrInternal.Cause)
}

func TestIsHelpers(t *testing.T) {
	err := ErrInvalidTransaction.WithMessage("signature mismatch")

	assert.True(t, IsInvalidTransaction(err))
	assert.False(t, IsMissingField(err))
	assert.False(t, IsInvalidTransaction(fmt.Errorf("plain error")))
}
