package stegerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("disk full"), ExitFailure},
		{New(KindAuthentication, "op", "m"), ExitAuth},
		{fmt.Errorf("decode: %w", New(KindMagicMismatch, "op", "m")), ExitNoContainer},
		{New(KindCapacity, "op", "m"), ExitCapacity},
		{New(KindFormat, "op", "m"), ExitCorrupt},
		{New(KindDecompression, "op", "m"), ExitCorrupt},
		{New(KindCipher, "op", "m"), ExitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestAdvice(t *testing.T) {
	assert.Equal(t, "wrong password?", Advice(New(KindAuthentication, "op", "m")))
	assert.Contains(t, Advice(New(KindCapacity, "op", "m")), "larger carrier")
	assert.Empty(t, Advice(errors.New("plain")))
	assert.Empty(t, Advice(New(KindKeyDerivation, "op", "m")))
}
