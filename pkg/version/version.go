// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

// AppName is the product name used in logs, spans and the CLI.
const AppName = "keylogic"

// Current defines the application version.
// It defaults to "dev" and is overwritten at link time.
var Current = "dev"

// Commit is the source revision, when known.
var Commit = ""

// String renders the version line printed by the CLI.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("%s %s", AppName, Current)
	}
	return fmt.Sprintf("%s %s (%s)", AppName, Current, Commit)
}
