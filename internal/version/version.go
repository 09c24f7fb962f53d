// Package version carries build metadata stamped in at link time via
// -ldflags -X; a plain go build leaves the dev defaults in place.
package version

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the version line logged at startup.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
