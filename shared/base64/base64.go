package base64

import "strings"

func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, ";base64,")

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// StripPrefix removes the data URI header, leaving the raw base64 payload.
func StripPrefix(file string) string {
	idx := strings.Index(file, ";base64,")
	if idx == -1 {
		return file
	}

	return file[idx+len(";base64,"):]
}
