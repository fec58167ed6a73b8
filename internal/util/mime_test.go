package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "application/pdf", DetectMIME("cv.bin", []byte("%PDF-1.7\n...")))
	require.Equal(t, "text/plain; charset=utf-8", DetectMIME("cv.txt", []byte("Jane Doe\nGo engineer")))
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		DetectMIME("cv.docx", []byte("PK\x03\x04\x14\x00\x06\x00")))
	require.Equal(t, "application/octet-stream", DetectMIME("cv.exe", []byte{0x00, 0x01, 0x02, 0x03}))
}

func TestIsResumeMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsResumeMIME("application/pdf"))
	require.True(t, IsResumeMIME("text/plain; charset=utf-8"))
	require.True(t, IsResumeMIME("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	require.False(t, IsResumeMIME("image/png"))
	require.False(t, IsResumeMIME("application/octet-stream"))
	require.True(t, IsTextMIME(" Text/Markdown "))
}
