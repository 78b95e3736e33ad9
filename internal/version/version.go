// Package version centralizes the versioning of cached data.
//
// Cache keys written to a shared store embed these version strings, so bumping
// a version after changing how weather results are parsed or shaped makes the
// old entries unreachable instead of serving them with the new code.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComponentVersions holds the version strings for the cached components.
// Increment a version by hand before deploying a change to that component.
var ComponentVersions = struct {
	// WeatherSchema changes whenever the shape of weather.Result changes.
	WeatherSchema string

	// Tools changes whenever a tool's result payload changes.
	Tools string
}{
	WeatherSchema: "v1.0",
	Tools:         "v1.0",
}

// GenerateVersionedCacheKey builds a stable, version-aware key for a cached value.
//
// Example output: "weather:a1b2c3d4...:wv1.0_tv1.0"
func GenerateVersionedCacheKey(prefix, subject string) string {
	hasher := sha256.New()
	hasher.Write([]byte(subject))
	subjectHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("w%s_t%s",
		ComponentVersions.WeatherSchema,
		ComponentVersions.Tools,
	)

	return strings.Join([]string{prefix, subjectHash, versionString}, ":")
}
