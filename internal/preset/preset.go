// Package preset defines the named quality presets that map a short label
// to a bundle of encoder parameters.
package preset

import (
	"strconv"
	"strings"
)

// DefaultName is the preset used when the caller provides an unknown label.
const DefaultName = "medium"

// Preset holds the encoder parameters selected by a quality label.
// CRF is the x264 constant rate factor (lower is better quality) and
// Speed is the x264 encoding speed preset.
type Preset struct {
	Name  string
	CRF   int
	Speed string
}

// Args returns the ffmpeg argument fragment for this preset.
func (p Preset) Args() []string {
	return []string{"-crf", strconv.Itoa(p.CRF), "-preset", p.Speed}
}

var presets = map[string]Preset{
	"low": {
		Name:  "low",
		CRF:   28,
		Speed: "fast",
	},
	"medium": {
		Name:  "medium",
		CRF:   23,
		Speed: "medium",
	},
	"high": {
		Name:  "high",
		CRF:   18,
		Speed: "slow",
	},
}

// Resolve normalizes the provided name and returns the matching preset.
// Unknown values fall back to the default preset; the second return value
// reports whether the name matched.
func Resolve(name string) (Preset, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := presets[key]; ok {
		return p, true
	}
	return presets[DefaultName], false
}

// IsValid reports whether the provided name matches a configured preset.
func IsValid(name string) bool {
	_, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Available returns the configured presets in a predictable order for
// presentation layers (help text, validation messages).
func Available() []Preset {
	return []Preset{
		presets["low"],
		presets["medium"],
		presets["high"],
	}
}

// Names returns the preset labels in presentation order.
func Names() []string {
	available := Available()
	names := make([]string, len(available))
	for i, p := range available {
		names[i] = p.Name
	}
	return names
}
