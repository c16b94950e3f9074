//go:build darwin
// +build darwin

package volume

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// readSystemVolume returns the current output volume (0-100) on macOS.
func readSystemVolume() (int, error) {
	out, err := exec.Command("osascript", "-e", "output volume of (get volume settings)").Output()
	if err != nil {
		return 0, fmt.Errorf("osascript: %w", err)
	}
	raw := strings.TrimSpace(string(out))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse osascript output %q: %w", raw, err)
	}
	return v, nil
}
