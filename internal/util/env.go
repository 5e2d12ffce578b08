package util

import (
	"strings"

	"github.com/vios-project/vios/pkg/settings"
)

// DiffEntryEnv is the expression environment a --filter program runs
// against, once per diff entry.
type DiffEntryEnv struct {
	Entry settings.DiffEntry
}

func (e DiffEntryEnv) All() bool {
	return true
}

func (e DiffEntryEnv) None() bool {
	return false
}

func (e DiffEntryEnv) Menus(vals ...string) bool {
	if len(vals) == 0 {
		return true
	}
	for _, val := range vals {
		if val == e.Entry.MenuPath {
			return true
		}
	}
	return false
}

func (e DiffEntryEnv) Menu(vals ...string) bool {
	return e.Menus(vals...)
}

// MenuContains matches any entry whose menu path contains the fragment,
// so "Menu" level filters work without spelling out full paths.
func (e DiffEntryEnv) MenuContains(fragment string) bool {
	return strings.Contains(e.Entry.MenuPath, fragment)
}

func (e DiffEntryEnv) Settings(vals ...string) bool {
	if len(vals) == 0 {
		return true
	}
	for _, val := range vals {
		if val == e.Entry.Setting {
			return true
		}
	}
	return false
}

func (e DiffEntryEnv) Setting(vals ...string) bool {
	return e.Settings(vals...)
}

func (e DiffEntryEnv) CurrentIs(value string) bool {
	return e.Entry.Current == value
}

func (e DiffEntryEnv) TemplateIs(value string) bool {
	return e.Entry.Template == value
}
