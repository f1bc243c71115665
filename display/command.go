// Package display renders evaluation results for the terminal: plain fold
// lines, pterm tables or JSON.
package display

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/psam/errors"
)

// Format selects how results are written to stdout.
type Format string

const (
	// FormatText prints one "[n00, n01, n10, n11] accuracy" line per fold.
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatText, FormatTable, FormatJSON}

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrInvalidRequest, "unknown format %q", s),
			"use one of: text, table, json")
	}
	return f, nil
}

// FormatFromCommand reads the --format flag, local or inherited.
func FormatFromCommand(cmd *cobra.Command) (Format, error) {
	if cmd == nil {
		return FormatText, nil
	}
	flag := cmd.Flags().Lookup("format")
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup("format")
	}
	if flag == nil {
		return FormatText, nil
	}
	return ParseFormat(flag.Value.String())
}
