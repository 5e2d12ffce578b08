// Package biostool drives the vendor configuration binaries: `sum` on
// Supermicro baseboards and `syscfg` on Intel ones. Both speak in files, so
// the interface is "capture current settings into this file" and "apply the
// settings in that file".
package biostool

import (
	"context"
	"errors"
	"fmt"

	"github.com/vios-project/vios/pkg/settings"
)

// ErrUnsupportedBoard is returned for boards neither sum nor syscfg can
// configure.
var ErrUnsupportedBoard = errors.New("baseboard is not supported by sum or syscfg")

// Runner executes a vendor binary and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Tool abstracts one vendor's configuration binary.
type Tool interface {
	// Kind reports which board family this tool drives.
	Kind() settings.BoardKind
	// FileExtension is the suffix the vendor binary expects on settings
	// files (syscfg refuses anything but .INI).
	FileExtension() string
	// Capture writes the current BIOS settings to destPath.
	Capture(ctx context.Context, destPath string) error
	// Apply configures the BIOS from the settings file at templatePath.
	// A reboot is required afterwards for the settings to take effect.
	Apply(ctx context.Context, templatePath string) error
}

// ForBoard returns the vendor tool for [kind].
func ForBoard(kind settings.BoardKind, runner Runner) (Tool, error) {
	switch kind {
	case settings.BoardSupermicro:
		return &Supermicro{runner: runner}, nil
	case settings.BoardIntel:
		return &Intel{runner: runner}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBoard, kind)
	}
}
