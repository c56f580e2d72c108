// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride, when set, replaces the platform config directory
// returned by ConfigDir.
var configDirOverride string

// Reset restores ConfigDir to the platform directory.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride points ConfigDir at dir. Tests use it to keep config
// files inside t.TempDir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
