package extractor

import (
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatDocx
	FormatXlsx
	FormatText
	FormatAudio
)

func (f Format) String() string {
	switch f {
	case FormatDocx:
		return "docx"
	case FormatXlsx:
		return "xlsx"
	case FormatText:
		return "text"
	case FormatAudio:
		return "audio"
	default:
		return "unknown"
	}
}

var extensions = map[string]Format{
	"docx": FormatDocx,
	"xlsx": FormatXlsx,
	"py":   FormatText,
	"txt":  FormatText,
	"csv":  FormatText,
	"json": FormatText,
	"md":   FormatText,
	"xml":  FormatText,
	"html": FormatText,
	"mp3":  FormatAudio,
	"wav":  FormatAudio,
	"m4a":  FormatAudio,
	"flac": FormatAudio,
}

// Extension returns the lower-case extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func FormatOf(name string) Format {
	return extensions[Extension(name)]
}
