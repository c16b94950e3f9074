//go:build windows
// +build windows

package volume

import "fmt"

// readSystemVolume returns the current output volume (0-100) on Windows.
// This is a stub. You can implement using nircmd or Windows API.
func readSystemVolume() (int, error) {
	return 0, fmt.Errorf("readSystemVolume not implemented for Windows")
}
