// Package build holds build-time information set through linker flags:
//
//	go build -ldflags "-X go.trai.ch/compass/internal/build.Version=v1.2.0 -X go.trai.ch/compass/internal/build.Commit=$(git rev-parse --short HEAD)"
package build

// Version is the application version. It defaults to "dev".
var Version = "dev"

// Commit is the source revision the binary was built from, if known.
var Commit = ""

// String returns the version followed by the commit when one was recorded.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
