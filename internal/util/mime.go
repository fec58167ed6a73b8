package util

import (
	"net/http"
	"path/filepath"
	"strings"
)

var resumeExtensions = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectMIME sniffs the content and falls back to the extension when the
// sniffer only sees bytes. The declared type is ignored.
func DetectMIME(fileName string, content []byte) string {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}

	sniffed := http.DetectContentType(head)
	if sniffed != "application/octet-stream" && sniffed != "application/zip" {
		return sniffed
	}

	if byExt, ok := resumeExtensions[strings.ToLower(filepath.Ext(fileName))]; ok {
		return byExt
	}
	return sniffed
}

func IsTextMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "text/")
}

// IsResumeMIME accepts documents a résumé parser would take.
func IsResumeMIME(mimeType string) bool {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	if strings.HasPrefix(base, "text/") {
		return true
	}
	for _, known := range resumeExtensions {
		if strings.HasPrefix(known, base) {
			return true
		}
	}
	return false
}
