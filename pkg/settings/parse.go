package settings

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

var (
	xmlDeclPattern    = regexp.MustCompile(`<\?xml\s+version`)
	xmlCommentPattern = regexp.MustCompile(`<!--.*-->\n`)

	hashCommentPattern  = regexp.MustCompile(`(?m)#.*$`)
	slashCommentPattern = regexp.MustCompile(`(?m)//.*$`)
	semiCommentPattern  = regexp.MustCompile(`(?m);.*$`)

	menuHeaderPattern = regexp.MustCompile(`\[(.*)\]`)
	settingPattern    = regexp.MustCompile(`(?m)^(.*)=(.*)$`)
	paddingPattern    = regexp.MustCompile(`\s\s+`)
)

// Parse converts one settings file into a [Tree]. The dialect is detected
// from the content itself: files starting with an XML declaration take the
// XML path, everything else is treated as plain text in the dialect of
// [BoardKind]. Warnings carry recoverable anomalies (unresolvable setting
// values, orphan settings without a menu header); the returned error is only
// non-nil when the whole file is unusable.
func Parse(content string, kind BoardKind) (Tree, []Warning, error) {
	if xmlDeclPattern.MatchString(content) {
		return parseXML(content)
	}
	return parsePlain(content, kind)
}

// xmlNode is a generic element-tree node. The vendor schemas only matter at
// the tag/attribute level, so one recursive shape covers all of them.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// valueLookup is one strategy for resolving a Setting element's value.
// Lookups are tried in priority order; the first hit wins.
type valueLookup struct {
	name    string
	resolve func(el *xmlNode) (string, bool)
}

func attrLookup(attr string) func(el *xmlNode) (string, bool) {
	return func(el *xmlNode) (string, bool) {
		return el.attr(attr)
	}
}

// settingLookups replaces the vendor tools' "try this attribute, then that,
// then a child node" ladder with one explicit priority table.
var settingLookups = []valueLookup{
	{"selectedOption", attrLookup("selectedOption")},
	{"checkedStatus", attrLookup("checkedStatus")},
	{"settingValue", attrLookup("settingValue")},
	{"password", func(el *xmlNode) (string, bool) {
		if t, _ := el.attr("type"); t != "Password" || len(el.Children) == 0 {
			return "", false
		}
		if hp := el.Children[0].child("HasPassword"); hp != nil {
			return strings.TrimSpace(hp.Text), true
		}
		return "", false
	}},
	{"string", func(el *xmlNode) (string, bool) {
		if t, _ := el.attr("type"); t != "String" {
			return "", false
		}
		if sv := el.child("StringValue"); sv != nil {
			return strings.TrimSpace(sv.Text), true
		}
		return "", false
	}},
}

func parseXML(content string) (Tree, []Warning, error) {
	// Stamp blocks are XML comments; drop them before decoding so a stamped
	// golden template parses the same as a fresh capture.
	content = xmlCommentPattern.ReplaceAllString(content, "")
	content = strings.TrimLeft(content, "\n")

	var root xmlNode
	if err := xml.Unmarshal([]byte(content), &root); err != nil {
		return nil, nil, &FormatError{Reason: "cannot decode settings XML", Err: err}
	}

	tree := make(Tree)
	var warnings []Warning
	for i := range root.Children {
		el := &root.Children[i]
		if el.XMLName.Local != "Menu" {
			continue
		}
		name, ok := el.attr("name")
		if !ok {
			return nil, nil, &FormatError{Reason: "top-level Menu element has no name attribute"}
		}
		// "Main" holds vendor boilerplate (language, build date), never
		// comparable configuration.
		if name == "Main" {
			continue
		}
		sub, subWarnings, err := walkMenu(name, el)
		if err != nil {
			return nil, nil, err
		}
		for path, menu := range sub {
			tree[path] = menu
		}
		warnings = append(warnings, subWarnings...)
	}
	return tree, warnings, nil
}

// walkMenu recursively collects the settings of one menu element and of all
// menus nested below it. Every call builds and returns fresh maps; merging
// happens in the caller, so no accumulator is shared across the recursion.
func walkMenu(path string, el *xmlNode) (Tree, []Warning, error) {
	tree := make(Tree)
	menu := make(Menu)
	var warnings []Warning

	for i := range el.Children {
		child := &el.Children[i]
		switch child.XMLName.Local {
		case "Setting":
			name, ok := child.attr("name")
			if !ok {
				return nil, nil, &FormatError{
					Reason: fmt.Sprintf("Setting element under %q has no name attribute", path),
				}
			}
			value, resolved := resolveSettingValue(child)
			menu[name] = value
			if !resolved {
				t, _ := child.attr("type")
				warnings = append(warnings, Warning{
					MenuPath: path,
					Setting:  name,
					Reason:   fmt.Sprintf("no known value source for setting type %q", t),
				})
			}

		case "Menu":
			name, ok := child.attr("name")
			if !ok {
				return nil, nil, &FormatError{
					Reason: fmt.Sprintf("Menu element under %q has no name attribute", path),
				}
			}
			sub, subWarnings, err := walkMenu(path+PathSeparator+name, child)
			if err != nil {
				return nil, nil, err
			}
			for subPath, subMenu := range sub {
				tree[subPath] = subMenu
			}
			warnings = append(warnings, subWarnings...)
		}
	}

	if len(menu) != 0 {
		tree[path] = menu
	}
	return tree, warnings, nil
}

func resolveSettingValue(el *xmlNode) (string, bool) {
	for _, lookup := range settingLookups {
		if v, ok := lookup.resolve(el); ok {
			return v, true
		}
	}
	return UnknownValue, false
}

func parsePlain(content string, kind BoardKind) (Tree, []Warning, error) {
	switch kind {
	case BoardSupermicro:
		content = hashCommentPattern.ReplaceAllString(content, "")
		content = slashCommentPattern.ReplaceAllString(content, "")
	case BoardIntel:
		content = semiCommentPattern.ReplaceAllString(content, "")
	}

	if !menuHeaderPattern.MatchString(content) {
		return nil, nil, &FormatError{Reason: "content is neither settings XML nor a bracketed plain-text dialect"}
	}

	tree := make(Tree)
	var warnings []Warning
	for _, block := range strings.Split(content, "\n\n") {
		var menuName string
		if m := menuHeaderPattern.FindStringSubmatch(block); m != nil {
			menuName = m[1]
		} else {
			if strings.TrimSpace(block) != "" {
				warnings = append(warnings, Warning{
					Reason: fmt.Sprintf("settings without a menu header ignored: %q", strings.TrimSpace(block)),
				})
			}
			continue
		}

		menu := make(Menu)
		for _, m := range settingPattern.FindAllStringSubmatch(block, -1) {
			// Values are padded with alignment spaces by the vendor tools;
			// runs of two or more whitespace characters are cosmetic and
			// collapse to nothing, not to a single space.
			menu[m[1]] = paddingPattern.ReplaceAllString(m[2], "")
		}
		tree[menuName] = menu
	}
	return tree, warnings, nil
}
