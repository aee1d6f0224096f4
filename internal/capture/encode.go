package capture

import (
	"encoding/base64"
	"github.com/gabriel-vasile/mimetype"
	"strings"
)

// EncodeDataURI renders data as a self-describing base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

func detectMime(declared, fallback string, data []byte) string {
	if declared != "" {
		return declared
	}
	detected := mimetype.Detect(data)
	if fallback != "" && detected.Is(fallback) {
		return fallback
	}
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return m.String()
		}
	}
	return fallback
}
