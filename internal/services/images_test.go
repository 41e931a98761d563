package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateImages(t *testing.T) {
	files := []ImageFile{
		{Name: "ok.png", ContentType: "image/png", Data: pngHeader},
		{Name: "sniffed.png", Data: pngHeader},
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
		{Name: "huge.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{0xff}, MaxImageBytes+1)},
	}

	valid, rejected, err := ValidateImages(files, 0)
	require.NoError(t, err)
	require.Len(t, valid, 2)
	assert.Equal(t, "image/png", valid[1].ContentType)
	require.Len(t, rejected, 2)
	assert.Equal(t, "notes.txt", rejected[0].Name)
	assert.Equal(t, "huge.jpg", rejected[1].Name)
}

func TestValidateImagesLimit(t *testing.T) {
	files := []ImageFile{
		{Name: "a.png", ContentType: "image/png", Data: pngHeader},
		{Name: "b.png", ContentType: "image/png", Data: pngHeader},
	}

	_, _, err := ValidateImages(files, 3)
	assert.NoError(t, err)

	_, _, err = ValidateImages(files, 4)
	assert.ErrorIs(t, err, ErrTooManyImages)
}
