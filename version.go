package corpus

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the toolkit release, read from the VERSION file.
var Version = strings.TrimSpace(rawVersion)
