//go:build linux
// +build linux

package volume

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var amixerPercentRe = regexp.MustCompile(`\[(\d+)%\]`)

// readSystemVolume returns the current output volume (0-100) on Linux using amixer.
func readSystemVolume() (int, error) {
	out, err := exec.Command("amixer", "get", "Master").Output()
	if err != nil {
		return 0, fmt.Errorf("amixer: %w", err)
	}
	return parseAmixerVolume(string(out))
}

// parseAmixerVolume extracts the first [XX%] percentage from amixer output.
func parseAmixerVolume(out string) (int, error) {
	matches := amixerPercentRe.FindStringSubmatch(out)
	if len(matches) < 2 {
		return 0, fmt.Errorf("no volume percentage in amixer output")
	}
	v, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", matches[1], err)
	}
	return v, nil
}
