package settings_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vios-project/vios/pkg/settings"
)

const sampleXML = `<?xml version="1.0"?>
<BiosCfg>
  <Menu name="Main">
    <Setting name="BIOS Build Date" type="Option" selectedOption="01/01/2024"/>
  </Menu>
  <Menu name="Advanced">
    <Setting name="Quiet Boot" type="Option" selectedOption="Enabled"/>
    <Setting name="Wake On LAN" type="CheckBox" checkedStatus="Checked"/>
    <Menu name="Boot Feature">
      <Setting name="Retry Boot" type="Numeric" settingValue="3"/>
    </Menu>
  </Menu>
  <Menu name="Security">
    <Setting name="Administrator Password" type="Password">
      <Information>
        <HasPassword>No</HasPassword>
      </Information>
    </Setting>
    <Setting name="Asset Tag" type="String">
      <StringValue>abc123</StringValue>
    </Setting>
  </Menu>
</BiosCfg>
`

func TestParseXML(t *testing.T) {
	tree, warnings, err := settings.Parse(sampleXML, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	want := settings.Tree{
		"Advanced": {
			"Quiet Boot":  "Enabled",
			"Wake On LAN": "Checked",
		},
		"Advanced|Boot Feature": {
			"Retry Boot": "3",
		},
		"Security": {
			"Administrator Password": "No",
			"Asset Tag":              "abc123",
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree mismatch:\n got %v\nwant %v", tree, want)
	}
}

// A parsed XML tree never contains a top-level "Main" menu.
func TestParseXMLSkipsMain(t *testing.T) {
	tree, _, err := settings.Parse(sampleXML, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for path := range tree {
		if path == "Main" {
			t.Fatal("tree must not contain a top-level Main menu")
		}
	}
}

// TestParseXMLStringValueChild resolves a String setting that carries no
// value attribute at all, only a StringValue child.
func TestParseXMLStringValueChild(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<BiosCfg>
  <Menu name="Security">
    <Setting name="Asset Tag" type="String">
      <StringValue>abc123</StringValue>
    </Setting>
  </Menu>
</BiosCfg>
`
	tree, _, err := settings.Parse(doc, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tree["Security"]["Asset Tag"]; got != "abc123" {
		t.Fatalf("Asset Tag: want %q, got %q", "abc123", got)
	}
}

// TestParseXMLUnknownSetting makes sure one unrecognized setting downgrades
// to a warning plus the unknown marker instead of failing the whole file.
func TestParseXMLUnknownSetting(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<BiosCfg>
  <Menu name="Advanced">
    <Setting name="Quiet Boot" type="Option" selectedOption="Enabled"/>
    <Setting name="Mystery Knob" type="Vendor"/>
  </Menu>
</BiosCfg>
`
	tree, warnings, err := settings.Parse(doc, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tree["Advanced"]["Mystery Knob"]; got != settings.UnknownValue {
		t.Fatalf("Mystery Knob: want unknown marker, got %q", got)
	}
	if got := tree["Advanced"]["Quiet Boot"]; got != "Enabled" {
		t.Fatalf("Quiet Boot should survive the unknown sibling, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Setting != "Mystery Knob" {
		t.Fatalf("want one warning for Mystery Knob, got %v", warnings)
	}
}

// TestParseXMLCommentStamp checks that a stamped template (XML comments
// prepended by the upload path) still decodes.
func TestParseXMLCommentStamp(t *testing.T) {
	const doc = `<!-- 2024-01-01-00-00-00 -->
<!-- Customer:  ACME -->
<?xml version="1.0"?>
<BiosCfg>
  <Menu name="Advanced">
    <Setting name="Quiet Boot" type="Option" selectedOption="Enabled"/>
  </Menu>
</BiosCfg>
`
	tree, _, err := settings.Parse(doc, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tree["Advanced"]["Quiet Boot"]; got != "Enabled" {
		t.Fatalf("Quiet Boot: want Enabled, got %q", got)
	}
}

func TestParsePlainPaddingCollapse(t *testing.T) {
	tree, warnings, err := settings.Parse("[Main]\nQuiet Boot=Enabled  \nPost Error Pause=Disabled\n", settings.BoardIntel)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := settings.Tree{
		"Main": {
			"Quiet Boot":       "Enabled",
			"Post Error Pause": "Disabled",
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree mismatch:\n got %v\nwant %v", tree, want)
	}
}

// N non-empty bracketed sections produce exactly N top-level menus.
func TestParsePlainSectionCount(t *testing.T) {
	const content = `[Main]
Quiet Boot=Enabled

[Boot Options]
Boot Order=CDROM

[Management]
Console Redirect=Disabled
`
	tree, _, err := settings.Parse(content, settings.BoardIntel)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tree) != 3 {
		t.Fatalf("want 3 top-level menus, got %d: %v", len(tree), tree)
	}
}

func TestParsePlainComments(t *testing.T) {
	cases := []struct {
		name    string
		kind    settings.BoardKind
		content string
		want    settings.Tree
	}{
		{
			name: "supermicro hash and slash",
			kind: settings.BoardSupermicro,
			content: "# capture stamp\n// generated\n[Boot]\nQuiet Boot=Enabled  # inline\n",
			want:    settings.Tree{"Boot": {"Quiet Boot": "Enabled"}},
		},
		{
			name: "intel semicolon",
			kind: settings.BoardIntel,
			content: "; syscfg export\n[Boot]\nQuiet Boot=Enabled\n",
			want:    settings.Tree{"Boot": {"Quiet Boot": "Enabled"}},
		},
		{
			name: "other keeps everything",
			kind: settings.BoardOther,
			content: "[Boot]\nQuiet Boot=Enabled\n",
			want:    settings.Tree{"Boot": {"Quiet Boot": "Enabled"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, _, err := settings.Parse(tc.content, tc.kind)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !reflect.DeepEqual(tree, tc.want) {
				t.Fatalf("tree mismatch:\n got %v\nwant %v", tree, tc.want)
			}
		})
	}
}

// TestParsePlainOrphanBlock checks that a block without a bracketed header
// warns and contributes nothing.
func TestParsePlainOrphanBlock(t *testing.T) {
	const content = `[Main]
Quiet Boot=Enabled

Orphan Setting=Lost
`
	tree, warnings, err := settings.Parse(content, settings.BoardIntel)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("want 1 menu, got %v", tree)
	}
	if len(warnings) != 1 {
		t.Fatalf("want 1 orphan warning, got %v", warnings)
	}
}

func TestParseUnrecognizedContent(t *testing.T) {
	_, _, err := settings.Parse("not a settings file at all\n", settings.BoardOther)
	var formatErr *settings.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("want FormatError, got %v", err)
	}
}

func TestParseBrokenXML(t *testing.T) {
	_, _, err := settings.Parse("<?xml version=\"1.0\"?>\n<BiosCfg><Menu name=\"A\">", settings.BoardSupermicro)
	var formatErr *settings.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("want FormatError, got %v", err)
	}
}

func BenchmarkParseXML(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _, _ = settings.Parse(sampleXML, settings.BoardSupermicro)
	}
}
