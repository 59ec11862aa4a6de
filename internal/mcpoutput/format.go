// Package mcpoutput centralizes the JSON/TOON output-format policy every
// tool response builder shares, instead of each tool hard-coding its own
// "5+ results -> TOON" threshold (spec §6, §9 REDESIGN FLAGS).
package mcpoutput

import (
	"encoding/json"

	"github.com/toon-format/toon-go"
)

// Format selects a tool response's serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOON Format = "toon"
	FormatAuto Format = "auto" // resolved by ChooseFormat at render time
	FormatCode Format = "code" // raw source text, no structured payload
)

// autoThreshold is the result-count floor at or above which ChooseFormat picks
// TOON over JSON in "auto" mode (spec §9: "5+ results -> TOON").
const autoThreshold = 5

// ChooseFormat resolves requested (which may be empty or FormatAuto) into
// a concrete Format, using resultCount only when requested is "auto" or
// unset. Every tool funnels its output_format param through here instead
// of inlining the threshold itself.
func ChooseFormat(requested Format, resultCount int) Format {
	switch requested {
	case FormatJSON, FormatTOON, FormatCode:
		return requested
	default:
		if resultCount >= autoThreshold {
			return FormatTOON
		}
		return FormatJSON
	}
}

// Render serializes v per format. FormatCode is not handled here — callers
// producing raw source text bypass Render entirely and write the string
// straight into the tool response's text payload.
func Render(format Format, v interface{}) (string, error) {
	if format == FormatTOON {
		encoded, err := toon.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
