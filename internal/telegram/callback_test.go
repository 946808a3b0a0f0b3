package telegram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackCodecRoundTrip(t *testing.T) {
	callbacks := []Callback{
		MarriageResponse{Accept: true, ProposerID: 123456789, TargetID: 987654321, ChatID: -1001234567890},
		MarriageResponse{Accept: false, ProposerID: math.MaxInt64, TargetID: math.MaxInt64, ChatID: math.MinInt64},
		ResetConfirmation{Confirm: true, UserID: 42, ChatID: -100},
		ResetConfirmation{Confirm: false, UserID: 42, ChatID: -100},
	}
	for _, cb := range callbacks {
		data, err := EncodeCallback(cb)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(data), maxCallbackData)

		decoded, err := DecodeCallback(data)
		require.NoError(t, err)
		assert.Equal(t, cb, decoded)
	}
}

func TestDecodeCallbackRejectsForeignData(t *testing.T) {
	for _, data := range []string{
		"",
		"marry_accept:1:2:3",
		"m:y:1:2",
		"m:maybe:1:2:3",
		"r:y:1:2:3",
		"r:n:zz!:1",
		"x:y:1",
	} {
		_, err := DecodeCallback(data)
		assert.ErrorIs(t, err, ErrMalformedCallback, data)
	}
}
