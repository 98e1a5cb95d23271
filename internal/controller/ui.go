// Package controller renders scan results and progress for the nfind CLI.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	m "nfind.dev/pkg/nfind/internal/model"
)

// Format names an output format.
type Format string

// Available Format values.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = fmt.Errorf("format must be one of %s, %s, %s", FormatText, FormatTable, FormatYAML)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatYAML:
		return f, nil
	}

	return "", fmt.Errorf("%w, got %q", ErrUnknownFormat, s)
}

// StartMode defines what the UI displays.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeCount
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode      StartMode
	showRoots bool
}

// WithListMode displays the accepted paths.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithCountMode displays only the number of accepted paths.
func WithCountMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCount
	}
}

// WithRootHeaders labels the output of each root. Used when several roots
// are scanned.
func WithRootHeaders() StartOption {
	return func(c *StartConfig) {
		c.showRoots = true
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var c StartConfig
	for _, opt := range options {
		opt(&c)
	}

	return c
}

// UI displays scan results. Implementations differ in output format.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	DisplayResults(ctx context.Context, results []m.RootResult) error
	Close(ctx context.Context)
}

// NewUI returns the UI for format, writing to cmd's output.
func NewUI(cmd *cobra.Command, format Format) (UI, error) {
	switch format {
	case FormatText, "":
		return NewSimpleUI(cmd), nil
	case FormatTable:
		return NewTableUI(cmd), nil
	case FormatYAML:
		return NewYAMLUI(cmd), nil
	}

	return nil, fmt.Errorf("%w, got %q", ErrUnknownFormat, format)
}
