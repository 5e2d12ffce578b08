package settings

// ChangeSet is the change-set that turns one [Tree] into another. Menus map
// to their changed settings; a nil menu entry means the whole menu was
// removed, a nil setting pointer means that setting was removed. Added and
// modified settings carry the new value.
//
// Change-sets are what the capture history store persists between full
// snapshots, so a long run of identical captures costs almost nothing.
type ChangeSet map[string]MenuChange

// MenuChange holds the changed settings of one menu.
type MenuChange map[string]*string

// Changes returns the minimal change-set required to transform [a] into [b].
// If the trees are equal it returns nil (not an empty map) so callers can
// test `if Changes(...) == nil { }` with zero allocations.
func Changes(a, b Tree) ChangeSet {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	cs := make(ChangeSet)
	for path, menuA := range a {
		menuB, ok := b[path]
		if !ok {
			cs[path] = nil // menu removed
			continue
		}
		if mc := menuChanges(menuA, menuB); mc != nil {
			cs[path] = mc
		}
	}
	for path, menuB := range b {
		if _, ok := a[path]; ok {
			continue
		}
		mc := make(MenuChange, len(menuB))
		for name, value := range menuB {
			mc[name] = ptr(value)
		}
		cs[path] = mc
	}
	if len(cs) == 0 {
		return nil
	}
	return cs
}

func menuChanges(a, b Menu) MenuChange {
	mc := make(MenuChange)
	for name, valueA := range a {
		valueB, ok := b[name]
		if !ok {
			mc[name] = nil // setting removed
			continue
		}
		if valueA != valueB {
			mc[name] = ptr(valueB)
		}
	}
	for name, valueB := range b {
		if _, ok := a[name]; !ok {
			mc[name] = ptr(valueB)
		}
	}
	if len(mc) == 0 {
		return nil
	}
	return mc
}

// Patch mutates [dst] so that, after the call, it equals the tree that
// originally produced the change-set.
//
//	dst := Tree{"Main": {"Quiet Boot": "Enabled"}}
//	cs := ChangeSet{"Main": {"Quiet Boot": ptr("Disabled")}}
//	settings.Patch(dst, cs) // dst is now {"Main": {"Quiet Boot": "Disabled"}}
func Patch(dst Tree, cs ChangeSet) {
	if dst == nil || len(cs) == 0 {
		return
	}
	for path, mc := range cs {
		if mc == nil {
			delete(dst, path)
			continue
		}
		menu, ok := dst[path]
		if !ok {
			menu = make(Menu, len(mc))
			dst[path] = menu
		}
		for name, value := range mc {
			if value == nil {
				delete(menu, name)
				continue
			}
			menu[name] = *value
		}
	}
}

// Clone returns a deep copy of [t]; the store hands out clones so callers
// can never alias a cached tree.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for path, menu := range t {
		m := make(Menu, len(menu))
		for name, value := range menu {
			m[name] = value
		}
		out[path] = m
	}
	return out
}

func ptr(s string) *string { return &s }
