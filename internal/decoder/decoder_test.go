package decoder

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faanross/simulacra_png/internal/embed"
	"github.com/faanross/simulacra_png/internal/encoder"
	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

func carrierFor(t *testing.T, msg []byte) []byte {
	t.Helper()
	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)

	pixels := make([]byte, n*wire.CHANNELS_PER_BYTE+37)
	_, err = rand.Read(pixels)
	require.NoError(t, err)
	return pixels
}

func TestDecode_ConcreteScenario(t *testing.T) {
	pixels := make([]byte, 1000*3)
	for i := range pixels {
		pixels[i] = byte(i)
	}

	require.NoError(t, encoder.Encode([]byte("correct horse"), pixels, []byte("hello"), false))

	msg, isFile, err := Decode([]byte("correct horse"), pixels)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), msg)
	assert.False(t, isFile)

	_, _, err = Decode([]byte("wrong horse"), pixels)
	require.Error(t, err)
	assert.True(t, stegerr.IsKind(err, stegerr.KindAuthentication), "got %v", err)
}

func TestDecode_RoundTrip(t *testing.T) {
	big := make([]byte, 2<<20)
	_, err := rand.Read(big)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		message  []byte
		isFile   bool
	}{
		{"empty", "pw", []byte{}, false},
		{"single byte", "pw", []byte{0x00}, true},
		{"text", "correct horse", []byte("the quick brown fox"), false},
		{"empty password", "", []byte("still works"), false},
		{"unicode password", "zażółć gęślą jaźń", []byte("pchnąć w tę łódź"), true},
		{"compressible", "pw", bytes.Repeat([]byte("abc"), 100000), true},
		{"multi-megabyte", "pw", big, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixels := carrierFor(t, tt.message)
			require.NoError(t, encoder.Encode([]byte(tt.password), pixels, tt.message, tt.isFile))

			result, err := NewSecureStegoDecoder(pixels, []byte(tt.password)).Decode()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.message, result.Message), "message mismatch")
			assert.Equal(t, tt.isFile, result.IsFile)
			assert.GreaterOrEqual(t, result.Cycles, uint16(wire.MIN_CYCLES))
		})
	}
}

func TestDecode_ExactCapacityCarrier(t *testing.T) {
	msg := []byte("fits exactly")
	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)

	pixels := make([]byte, n*wire.CHANNELS_PER_BYTE)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	got, _, err := Decode([]byte("pw"), pixels)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDecode_WrongPasswordIsAuthentication(t *testing.T) {
	msg := []byte("secret")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("right"), pixels, msg, false))

	for _, pw := range []string{"wrong", "Right", "right ", ""} {
		_, _, err := Decode([]byte(pw), pixels)
		assert.True(t, stegerr.IsKind(err, stegerr.KindAuthentication), "password %q: %v", pw, err)
	}
}

func TestDecode_NoContainer(t *testing.T) {
	pixels := make([]byte, 10000)
	_, err := rand.Read(pixels)
	require.NoError(t, err)

	_, _, err = Decode([]byte("pw"), pixels)
	assert.True(t, stegerr.IsKind(err, stegerr.KindMagicMismatch), "got %v", err)

	blank := make([]byte, 10000)
	_, _, err = Decode([]byte("pw"), blank)
	assert.True(t, stegerr.IsKind(err, stegerr.KindMagicMismatch))
}

func TestDecode_CarrierTooSmallForHeader(t *testing.T) {
	_, _, err := Decode([]byte("pw"), make([]byte, wire.HEADER_SIZE*wire.CHANNELS_PER_BYTE-1))
	assert.True(t, stegerr.IsKind(err, stegerr.KindCapacity))
}

func TestDecode_TruncatedPayload(t *testing.T) {
	msg := []byte("this will be cut off")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)

	_, _, err = Decode([]byte("pw"), pixels[:n*wire.CHANNELS_PER_BYTE-1])
	assert.True(t, stegerr.IsKind(err, stegerr.KindCapacity), "got %v", err)
}

func TestDecode_CorruptHeaderMagic(t *testing.T) {
	msg := []byte("hello")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	pixels[0] ^= 0x01

	_, _, err := Decode([]byte("pw"), pixels)
	assert.True(t, stegerr.IsKind(err, stegerr.KindMagicMismatch))
}

func TestDecode_CorruptCiphertextTail(t *testing.T) {
	msg := bytes.Repeat([]byte("tail corruption "), 20)
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)

	// Flip every channel of the final ciphertext block
	for i := (n - wire.BLOCK_SIZE) * wire.CHANNELS_PER_BYTE; i < n*wire.CHANNELS_PER_BYTE; i++ {
		pixels[i] ^= 0x03
	}

	_, _, err = Decode([]byte("pw"), pixels)
	require.Error(t, err)
	kind := stegerr.KindOf(err)
	assert.Contains(t, []stegerr.Kind{stegerr.KindFormat, stegerr.KindDecompression}, kind)
}

func TestDecode_ReadOnly(t *testing.T) {
	msg := []byte("read only")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))
	before := append([]byte{}, pixels...)

	_, _, err := Decode([]byte("pw"), pixels)
	require.NoError(t, err)
	_, _, err = Decode([]byte("nope"), pixels)
	require.Error(t, err)

	assert.Equal(t, before, pixels)
}

func TestProbe(t *testing.T) {
	msg := []byte("probe me")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, true))

	c, err := Probe(pixels)
	require.NoError(t, err)
	assert.True(t, c.IsFile())
	assert.Nil(t, c.Payload)

	_, err = Probe(make([]byte, 8))
	assert.True(t, stegerr.IsKind(err, stegerr.KindCapacity))
}

func TestTryPasswords(t *testing.T) {
	msg := []byte("one of these")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("beta"), pixels, msg, false))

	pass, result, err := TryPasswords(pixels, []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, "beta", pass)
	assert.Equal(t, msg, result.Message)

	_, _, err = TryPasswords(pixels, []string{"alpha", "gamma"})
	assert.True(t, stegerr.IsKind(err, stegerr.KindAuthentication))

	_, _, err = TryPasswords(make([]byte, 4096), []string{"beta"})
	assert.True(t, stegerr.IsKind(err, stegerr.KindMagicMismatch))
}

func TestTryPasswords_DamagedCarrierKeepsKind(t *testing.T) {
	msg := bytes.Repeat([]byte("tail corruption "), 20)
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)
	for i := (n - wire.BLOCK_SIZE) * wire.CHANNELS_PER_BYTE; i < n*wire.CHANNELS_PER_BYTE; i++ {
		pixels[i] ^= 0x03
	}

	for _, order := range [][]string{{"pw", "other"}, {"other", "pw"}} {
		_, _, err := TryPasswords(pixels, order)
		require.Error(t, err)
		assert.False(t, stegerr.IsKind(err, stegerr.KindAuthentication), "order %v: %v", order, err)
		assert.Contains(t, []stegerr.Kind{stegerr.KindFormat, stegerr.KindDecompression}, stegerr.KindOf(err))
	}
}

func TestTryPasswords_EmptyList(t *testing.T) {
	msg := []byte("nothing to try")
	pixels := carrierFor(t, msg)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	_, _, err := TryPasswords(pixels, nil)
	require.Error(t, err)
	assert.False(t, stegerr.IsKind(err, stegerr.KindAuthentication))
}

func TestEncodeDecode_PreservesUntouchedTail(t *testing.T) {
	msg := []byte("tail")
	pixels := carrierFor(t, msg)
	before := append([]byte{}, pixels...)
	require.NoError(t, encoder.Encode([]byte("pw"), pixels, msg, false))

	n, err := encoder.RequiredBytes(msg)
	require.NoError(t, err)
	assert.Equal(t, before[n*wire.CHANNELS_PER_BYTE:], pixels[n*wire.CHANNELS_PER_BYTE:])

	analysis := embed.Analyze(pixels[:n*wire.CHANNELS_PER_BYTE])
	assert.Equal(t, n*wire.CHANNELS_PER_BYTE, analysis.ChannelBytes)
}
