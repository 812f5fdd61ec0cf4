package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	downloadSuffix      = "-white-border.png"
	defaultDownloadName = "white-border.png"
)

var extensionPattern = regexp.MustCompile(`\.[^.]+$`)

// DownloadName returns the file name offered for an exported image:
// "<stem>-white-border.png", or "white-border.png" without an original name.
func DownloadName(original string) string {
	name := strings.TrimSpace(original)
	if name == "" {
		return defaultDownloadName
	}
	// browsers hand over base names; drop any directory part from other callers
	name = filepath.Base(filepath.ToSlash(name))
	if name == "." || name == "/" {
		return defaultDownloadName
	}
	return extensionPattern.ReplaceAllString(name, "") + downloadSuffix
}
