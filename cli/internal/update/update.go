// Package update compares the running version with the latest release.
package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/queryforge/cli/internal/ui"
)

// latestKnownVersion is the newest release this build knows about. A release
// pipeline can override it at build time.
var latestKnownVersion = "0.1.0"

// Check compares currentVersion against the latest known release and prints
// an upgrade hint when the build is stale.
func Check(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}
	latest, err := version.NewVersion(latestKnownVersion)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestKnownVersion)
		fmt.Printf("\nUpdate with: go install github.com/satishbabariya/queryforge/cli@latest\n")
	}
	return nil
}

// DownloadURL returns the release artifact URL for the current platform.
func DownloadURL(v string) string {
	return fmt.Sprintf("https://github.com/satishbabariya/queryforge/releases/download/v%s/queryforge-%s-%s",
		v, runtime.GOOS, runtime.GOARCH)
}
