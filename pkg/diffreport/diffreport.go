// Package diffreport renders compare results for terminals. Entries are
// grouped by menu path, with the system's value and the template's value on
// adjacent lines so a technician can read the drift top to bottom.
package diffreport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vios-project/vios/pkg/settings"
)

type RenderOptions struct {
	IndentSize int
	// ShowWarnings appends the non-fatal parse and compare warnings after
	// the diff body.
	ShowWarnings bool
}

var DefaultRenderOptions = RenderOptions{
	IndentSize:   2,
	ShowWarnings: true,
}

// Render formats diff entries and warnings using theme. An empty diff
// renders a single confirmation line.
func Render(diffs []settings.DiffEntry, warnings []settings.Warning, theme Theme, opts RenderOptions) string {
	var sb strings.Builder

	if len(diffs) == 0 {
		sb.WriteString(theme.OKStyle.Render("BIOS settings match the golden template.") + "\n")
	} else {
		renderDiffs(&sb, diffs, theme, opts)
	}

	if opts.ShowWarnings && len(warnings) > 0 {
		sb.WriteString("\n")
		for _, w := range warnings {
			line := fmt.Sprintf("warning: %s", w.Reason)
			if w.MenuPath != "" {
				line += fmt.Sprintf(" (menu %q", w.MenuPath)
				if w.Setting != "" {
					line += fmt.Sprintf(", setting %q", w.Setting)
				}
				line += ")"
			}
			sb.WriteString(theme.WarnStyle.Render(line) + "\n")
		}
	}
	return sb.String()
}

func renderDiffs(sb *strings.Builder, diffs []settings.DiffEntry, theme Theme, opts RenderOptions) {
	indent := strings.Repeat(" ", opts.IndentSize)

	byMenu := make(map[string][]settings.DiffEntry)
	for _, d := range diffs {
		byMenu[d.MenuPath] = append(byMenu[d.MenuPath], d)
	}
	menus := make([]string, 0, len(byMenu))
	for m := range byMenu {
		menus = append(menus, m)
	}
	sort.Strings(menus)

	fmt.Fprintf(sb, "%d setting(s) differ from the golden template:\n\n", len(diffs))
	for _, menu := range menus {
		sb.WriteString(theme.MenuStyle.Render("["+menu+"]") + "\n")
		for _, d := range byMenu[menu] {
			sb.WriteString(indent + theme.SettingStyle.Render(d.Setting) + "\n")
			sb.WriteString(indent + indent + theme.CurrentBg.Render("current:  "+d.Current) + "\n")
			sb.WriteString(indent + indent + theme.TemplateBg.Render("template: "+d.Template) + "\n")
		}
		sb.WriteString("\n")
	}
}
