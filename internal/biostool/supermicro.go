package biostool

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vios-project/vios/pkg/settings"
)

// ErrNotActivated means the Supermicro node has no product key for OOB
// management; sum refuses to read or write BIOS settings on such systems.
var ErrNotActivated = errors.New("system is not activated, please activate it before continuing")

var (
	oobKeyActivatedPattern = regexp.MustCompile(`Node Product Key Activated\.*OOB`)
	oobToggledOnPattern    = regexp.MustCompile(`Feature Toggled On\.*Yes`)
)

// Supermicro drives the `sum` binary.
type Supermicro struct {
	runner Runner
}

func (s *Supermicro) Kind() settings.BoardKind { return settings.BoardSupermicro }

func (s *Supermicro) FileExtension() string { return ".bios" }

// CheckActivation verifies the node is licensed for OOB management.
func (s *Supermicro) CheckActivation(ctx context.Context) error {
	out, err := s.runner.Run(ctx, "sum", "-c", "CheckOOBSupport")
	if err != nil {
		return fmt.Errorf("failed to check activation status: %w", err)
	}
	if !oobKeyActivatedPattern.Match(out) && !oobToggledOnPattern.Match(out) {
		return ErrNotActivated
	}
	return nil
}

func (s *Supermicro) Capture(ctx context.Context, destPath string) error {
	out, err := s.runner.Run(ctx, "sum", "-c", "getcurrentbioscfg", "--file", destPath)
	if err != nil {
		return fmt.Errorf("sum could not capture current BIOS settings: %w", err)
	}
	// sum exits zero on some failures; the "created" line is the real
	// success marker.
	if !strings.Contains(strings.ToLower(string(out)), "created") {
		return fmt.Errorf("sum did not report the settings file as created: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *Supermicro) Apply(ctx context.Context, templatePath string) error {
	if _, err := s.runner.Run(ctx, "sum", "-c", "ChangeBiosCfg", "--file", templatePath); err != nil {
		return fmt.Errorf("sum could not apply %s: %w", templatePath, err)
	}
	return nil
}
