package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecrypt(t *testing.T) {
	svc, err := New(hexKey)
	require.NoError(t, err)
	require.True(t, svc.Configured())

	sealed, err := svc.Encrypt([]byte("payslip body"), []byte("E001.pdf"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "payslip body")

	plain, err := svc.Decrypt(sealed, []byte("E001.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "payslip body", string(plain))

	_, err = svc.Decrypt(sealed, []byte("E002.pdf"))
	assert.Error(t, err, "associated data must match")

	_, err = svc.Decrypt(sealed[:4], nil)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	out, err := svc.Encrypt([]byte("plain"), nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New(strings.Repeat("k", 10))
	assert.Error(t, err)
}
