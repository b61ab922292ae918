// Package crypto 加密工具单元测试
package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAES(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"AES-128", "0123456789abcdef", false},
		{"AES-192", "0123456789abcdef01234567", false},
		{"AES-256", "0123456789abcdef0123456789abcdef", false},
		{"Too short", "short", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAES(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKeySize)
				assert.Nil(t, a)
			} else {
				require.NoError(t, err)
				require.NotNil(t, a)
			}
		})
	}
}

func TestAES_EncryptDecrypt(t *testing.T) {
	a, err := NewAES("0123456789abcdef")
	require.NoError(t, err)

	plaintext := "AO06004400006729503010102"
	ciphertext, err := a.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := a.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAES_Decrypt_Invalid(t *testing.T) {
	a, err := NewAES("0123456789abcdef")
	require.NoError(t, err)

	_, err = a.Decrypt("not-base64!!!")
	assert.Error(t, err)

	_, err = a.Decrypt("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrCiphertextShort)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "senha123", hash)

	// 哈希结果每次不同
	hash2, err := HashPassword("senha123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("senha123", hash))
	assert.False(t, VerifyPassword("errada", hash))
	assert.False(t, VerifyPassword("senha123", "not-a-hash"))
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)

	s2, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"923456789", "923****89"},
		{"+244923456789", "+24****89"},
		{"123", "123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskPhone(tt.phone))
	}
}

func TestMaskIBAN(t *testing.T) {
	masked := MaskIBAN("AO06004400006729503010102")
	assert.Equal(t, "AO060044 **** **** 0102", masked)

	assert.Equal(t, "short", MaskIBAN("short"))
}
