package imaging

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainmedia "milhouse/internal/domain/media"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

func upload(name, contentType string, data []byte) domainmedia.Upload {
	return domainmedia.Upload{Filename: name, ContentType: contentType, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestInspect_AcceptsPNGAndPreservesContent(t *testing.T) {
	out, err := NewInspector(0).Inspect(upload("foto.PNG", "image/png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
	data, err := io.ReadAll(out.Content)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestInspect_FillsMissingContentType(t *testing.T) {
	out, err := NewInspector(0).Inspect(upload("foto.png", "application/octet-stream", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
}

func TestInspect_Rejections(t *testing.T) {
	in := NewInspector(1024)
	cases := []struct {
		name string
		up   domainmedia.Upload
		want error
	}{
		{"empty", upload("a.png", "image/png", nil), domainmedia.ErrEmpty},
		{"too large", upload("a.png", "image/png", bytes.Repeat([]byte{1}, 2048)), domainmedia.ErrTooLarge},
		{"extension", upload("a.exe", "image/png", pngBytes), domainmedia.ErrExtension},
		{"no extension", upload("png", "image/png", pngBytes), domainmedia.ErrExtension},
		{"mime", upload("a.png", "application/pdf", pngBytes), domainmedia.ErrMIMEType},
		{"disguised", upload("a.jpg", "image/jpeg", pngBytes), domainmedia.ErrContent},
		{"script", upload("a.png", "image/png", []byte("#!/bin/sh\necho hi\n")), domainmedia.ErrContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := in.Inspect(tc.up)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "image/svg+xml", baseType("image/SVG+xml; charset=utf-8"))
	assert.Equal(t, "", baseType("  "))
}
