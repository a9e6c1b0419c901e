//go:build windows

// Package winapi contains small Win32 helpers not covered by
// golang.org/x/sys/windows.
package winapi

import "golang.org/x/sys/windows"

// IsElevated returns whether the current process token has the elevated
// attribute set. The VSS backup-components API rejects callers without
// administrator rights, so commands check this up front for a clearer error.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
