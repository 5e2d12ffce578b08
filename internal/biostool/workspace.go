package biostool

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var (
	currentCapturePattern = regexp.MustCompile(`(?i)current_bios`)
	goldenTemplatePattern = regexp.MustCompile(`(?i)golden_template`)
)

// Workspace is the fixed directory (~/bios_settings by default) where
// capture and template files live. Only the newest capture and the newest
// template are kept; stale ones are removed before each write.
type Workspace struct {
	Dir string
}

// DefaultWorkspace resolves ~/bios_settings.
func DefaultWorkspace() (*Workspace, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Workspace{Dir: filepath.Join(home, "bios_settings")}, nil
}

// Ensure creates the directory if it does not exist yet.
func (w *Workspace) Ensure() error {
	return os.MkdirAll(w.Dir, 0o755)
}

// CaptureFile removes stale capture files and returns the path a new
// capture should be written to.
func (w *Workspace) CaptureFile(at time.Time, extension string) (string, error) {
	if err := w.removeMatching(currentCapturePattern); err != nil {
		return "", err
	}
	name := "current_bios_settings_" + at.Format("2006-01-02-15-04-05") + extension
	return filepath.Join(w.Dir, name), nil
}

// TemplateFile removes stale golden template files and returns the path a
// new template should be written to.
func (w *Workspace) TemplateFile(name string) (string, error) {
	if err := w.removeMatching(goldenTemplatePattern); err != nil {
		return "", err
	}
	return filepath.Join(w.Dir, name), nil
}

// TemplateName builds the canonical golden template file name.
func TemplateName(projectNumber, customer string, at time.Time, extension string) string {
	return fmt.Sprintf("GOLDEN_TEMPLATE_%s_%s_%s%s",
		projectNumber, customer, at.Format("2006-01-02-15-04-05"), extension)
}

func (w *Workspace) removeMatching(pattern *regexp.Regexp) error {
	if err := w.Ensure(); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !pattern.MatchString(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(w.Dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
