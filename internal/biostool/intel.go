package biostool

import (
	"context"
	"fmt"
	"strings"

	"github.com/vios-project/vios/pkg/settings"
)

// Intel drives the `syscfg` binary.
type Intel struct {
	runner Runner
}

func (i *Intel) Kind() settings.BoardKind { return settings.BoardIntel }

// FileExtension is .INI because syscfg only recognizes that suffix.
func (i *Intel) FileExtension() string { return ".INI" }

func (i *Intel) Capture(ctx context.Context, destPath string) error {
	out, err := i.runner.Run(ctx, "syscfg", "/s", destPath, "/b")
	if err != nil {
		return fmt.Errorf("syscfg could not capture current BIOS settings: %w", err)
	}
	if !strings.Contains(strings.ToLower(string(out)), "successfully completed") {
		return fmt.Errorf("syscfg did not complete successfully: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (i *Intel) Apply(ctx context.Context, templatePath string) error {
	if _, err := i.runner.Run(ctx, "syscfg", "/r", templatePath, "/b"); err != nil {
		return fmt.Errorf("syscfg could not apply %s: %w", templatePath, err)
	}
	return nil
}
