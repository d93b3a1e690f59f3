package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanicar/stegstr"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("a secret message carried inside a cover image")

	out, err := Encrypt(plaintext)
	require.NoError(t, err)
	assert.True(t, IsEncryptedPayload(out))

	got, err := Decrypt(out)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	plaintext := []byte("same plaintext, different nonce")
	a, err := Encrypt(plaintext)
	require.NoError(t, err)
	b, err := Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIsEncryptedPayloadFalseForPlainData(t *testing.T) {
	assert.False(t, IsEncryptedPayload([]byte("just some plain bytes")))
	assert.False(t, IsEncryptedPayload(nil))
}

func TestDecryptTooShort(t *testing.T) {
	_, err := Decrypt([]byte("short"))
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindTooSmall, stegErr.Kind)
}

func TestDecryptBadMagic(t *testing.T) {
	bad := make([]byte, len(Magic)+1+12+16+4)
	copy(bad, "NOTSTEGS")
	_, err := Decrypt(bad)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindBadMagic, stegErr.Kind)
}

func TestDecryptBadVersion(t *testing.T) {
	plaintext := []byte("version check")
	out, err := Encrypt(plaintext)
	require.NoError(t, err)
	out[len(Magic)] = 9

	_, err = Decrypt(out)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindBadVersion, stegErr.Kind)
}

func TestDecryptNotUtf8(t *testing.T) {
	invalid := []byte{0x68, 0x65, 0x6c, 0xff, 0xfe, 0x6f}
	out, err := Encrypt(invalid)
	require.NoError(t, err)

	_, err = Decrypt(out)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindNotUtf8, stegErr.Kind)
}

func TestDecryptAuthFailOnTamperedCiphertext(t *testing.T) {
	plaintext := []byte("tamper detection")
	out, err := Encrypt(plaintext)
	require.NoError(t, err)
	out[len(out)-1] ^= 0xFF

	_, err = Decrypt(out)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindAuthFail, stegErr.Kind)
}
