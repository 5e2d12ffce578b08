// Package settings turns raw BIOS configuration files into a normalized
// tree of menu path → setting name → value and compares two such trees.
//
// Both vendor dialects end up in the same shape, so a Supermicro XML export
// and an Intel syscfg INI can be diffed against each other's golden template
// without the caller caring which tool produced which file.
package settings

import "fmt"

// UnknownValue marks a setting whose value could not be resolved from any
// known attribute or child node. Parsing records it instead of failing so a
// single odd setting never throws away the rest of the file.
const UnknownValue = "<unknown>"

// PathSeparator joins nested menu names into a single menu path,
// e.g. "BIOS|Advanced|PCIe Configuration".
const PathSeparator = "|"

// Menu is the flat set of settings directly under one menu path.
type Menu = map[string]string

// Tree maps a menu path to its settings. A Tree is built fresh by [Parse]
// and never mutated afterwards; every leaf is a string or [UnknownValue].
type Tree = map[string]Menu

// BoardKind selects the plain-text dialect (comment rules) of a settings
// file. It is always passed in explicitly; the parser keeps no board state.
type BoardKind int

const (
	BoardOther BoardKind = iota
	BoardIntel
	BoardSupermicro
)

func (k BoardKind) String() string {
	switch k {
	case BoardIntel:
		return "intel"
	case BoardSupermicro:
		return "supermicro"
	default:
		return "other"
	}
}

// DiffEntry is one leaf-level difference between a current tree and a
// template tree.
type DiffEntry struct {
	MenuPath string
	Setting  string
	Current  string
	Template string
}

// Warning is a non-fatal anomaly found while parsing or comparing.
// Warnings are returned to the caller for logging; they never abort a run.
type Warning struct {
	MenuPath string
	Setting  string
	Reason   string
}

func (w Warning) String() string {
	switch {
	case w.Setting != "":
		return fmt.Sprintf("%s: setting %q: %s", w.MenuPath, w.Setting, w.Reason)
	case w.MenuPath != "":
		return fmt.Sprintf("%s: %s", w.MenuPath, w.Reason)
	default:
		return w.Reason
	}
}

// FormatError reports content that matches neither the XML nor the plain
// dialect, or an XML document that cannot be decoded at all.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("settings: %s: %v", e.Reason, e.Err)
	}
	return "settings: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// StructuralMismatchError reports two trees whose top-level shape disagrees.
// A partial diff against the wrong golden template would be misleading, so
// the comparison is rejected outright instead of reported menu by menu.
type StructuralMismatchError struct {
	CurrentMenus  int
	TemplateMenus int
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("settings: menu count mismatch: current has %d top-level menus, template has %d",
		e.CurrentMenus, e.TemplateMenus)
}
