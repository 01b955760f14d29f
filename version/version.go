package version

import (
	"fmt"
)

const (
	Version = "0.3"
)

// VersionString identifies the engine in reports and CLI output.
var VersionString = fmt.Sprintf("Go-WebStyle %s", Version)
