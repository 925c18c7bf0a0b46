package service

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType infers the media type of a record from its name, falling back
// to sniffing data when the extension is unknown.
func ContentType(name string, data []byte) string {
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}

	return mimetype.Detect(data).String()
}
