// Package selectorgo provides the version information for selector-go.
package selectorgo

// Version is the current version of selector-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
