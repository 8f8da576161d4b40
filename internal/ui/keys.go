package ui

import (
	"strings"
	"time"
)

// ShortID abbreviates a long identifier to its first and last eight
// characters.
func ShortID(id string) string {
	if len(id) <= 20 {
		return id
	}
	return id[:8] + "…" + id[len(id)-8:]
}

// Label renders an optional label, showing a muted placeholder when absent.
func Label(label *string) string {
	if label == nil || strings.TrimSpace(*label) == "" {
		return Muted.Sprint("no label")
	}
	return Highlight.Sprint(*label)
}

// Mode renders a protection mode name.
func Mode(mode string) string {
	switch mode {
	case "password":
		return Info.Sprint(mode)
	case "device":
		return Identity.Sprint(mode)
	}
	return Warning.Sprint(mode)
}

// Timestamp renders t in the local zone to the minute.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
