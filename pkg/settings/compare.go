package settings

import "sort"

// Compare walks two trees of identical shape and returns every leaf value
// that differs, keyed by menu path and setting name. Output order is
// deterministic: sorted menu paths, then sorted setting names.
//
// A differing number of top-level menus fails the whole comparison with a
// [StructuralMismatchError]: it almost always means the template belongs to
// a different board model, and a partial diff against the wrong template is
// worse than none. A menu present only in current is downgraded to a
// warning and skipped. Settings present on only one side of a matched menu
// are not reported; only common keys are compared.
func Compare(current, template Tree) ([]DiffEntry, []Warning, error) {
	if len(current) != len(template) {
		return nil, nil, &StructuralMismatchError{
			CurrentMenus:  len(current),
			TemplateMenus: len(template),
		}
	}

	var diffs []DiffEntry
	var warnings []Warning
	for _, path := range sortedKeys(current) {
		templateMenu, ok := template[path]
		if !ok {
			warnings = append(warnings, Warning{
				MenuPath: path,
				Reason:   "menu not present in the golden template",
			})
			continue
		}
		currentMenu := current[path]
		for _, name := range sortedKeys(currentMenu) {
			templateValue, ok := templateMenu[name]
			if !ok {
				continue
			}
			if currentValue := currentMenu[name]; currentValue != templateValue {
				diffs = append(diffs, DiffEntry{
					MenuPath: path,
					Setting:  name,
					Current:  currentValue,
					Template: templateValue,
				})
			}
		}
	}
	return diffs, warnings, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
