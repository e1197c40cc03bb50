package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "0.0.0-dev"
	Revision  = "unknown"
	Branch    = "unknown"
	BuildDate = "unknown"
)

// String returns a single-line description of the build.
func String() string {
	return fmt.Sprintf("%s (revision=%s, branch=%s, built=%s, %s)",
		Version, Revision, Branch, BuildDate, runtime.Version())
}
