package oss

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockUploader_UploadAndDelete(t *testing.T) {
	uploader := NewMockUploader()

	url, err := uploader.Upload("proofs/test.png", bytes.NewReader([]byte("conteúdo")))
	require.NoError(t, err)
	assert.Contains(t, url, "proofs/test.png")
	assert.Equal(t, []byte("conteúdo"), uploader.Files["proofs/test.png"])

	err = uploader.Delete("proofs/test.png")
	require.NoError(t, err)
	assert.NotContains(t, uploader.Files, "proofs/test.png")
}

func TestMockUploader_GetSignedURL(t *testing.T) {
	uploader := NewMockUploader()

	url, err := uploader.GetSignedURL("proofs/test.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "expires=")
}

func TestGenerateObjectKey(t *testing.T) {
	key := GenerateObjectKey("proofs", "comprovativo.jpg")

	assert.True(t, strings.HasPrefix(key, "proofs/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	// 同名文件生成的键不应相同
	other := GenerateObjectKey("proofs", "comprovativo.jpg")
	assert.NotEqual(t, key, other)
}

func TestValidateImageFile(t *testing.T) {
	t.Run("拒绝不支持的扩展名", func(t *testing.T) {
		err := ValidateImageFile("script.exe", bytes.NewReader([]byte{0x4d, 0x5a}))
		assert.Error(t, err)
	})

	t.Run("拒绝伪装成图片的内容", func(t *testing.T) {
		err := ValidateImageFile("fake.png", strings.NewReader("apenas texto"))
		assert.Error(t, err)
	})

	t.Run("接受真实 PNG 头", func(t *testing.T) {
		pngHeader := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
		err := ValidateImageFile("real.png", bytes.NewReader(pngHeader))
		assert.NoError(t, err)
	})
}
