package template

import (
	"fmt"
	"strings"

	"github.com/vios-project/vios/internal/sysinfo"
	"github.com/vios-project/vios/internal/version"
)

// ErrUnknownFormat means the settings file starts with something that is
// neither a known comment marker nor an XML tag, so no comment syntax can
// be chosen for the stamp.
var ErrUnknownFormat = fmt.Errorf("cannot identify settings file as plain or XML")

const stampDateLayout = "2006-01-02-15-04-05"

// Stamp prefixes a captured settings file with a comment block recording
// where the template came from. The comment syntax is picked from the
// file's first character so the vendor tools still parse it.
func Stamp(content []byte, name string, info *sysinfo.Info) ([]byte, error) {
	var prefix, suffix string
	switch {
	case len(content) > 0 && content[0] == '#':
		prefix = "\n#"
	case len(content) > 0 && content[0] == '<':
		prefix, suffix = "\n<!--", "-->"
	case len(content) > 0 && content[0] == ';':
		prefix = "\n; "
	default:
		return nil, ErrUnknownFormat
	}

	lines := []string{
		info.Date.Format(stampDateLayout),
		"File Name:  " + name,
		"Customer:  " + info.Customer,
		"Project:  " + info.ProjectNumber,
		"Order Number:  " + info.Order,
		"Template generated on SM Number:  " + info.SMNumber,
		"Motherboard Model:  " + info.Model,
		"BIOS / IPMI:  " + info.BIOSVersion + " / " + info.IPMIVersion,
		"Motherboard Serial:  " + info.Serial,
		"vios version " + version.Version,
	}

	var b strings.Builder
	// the first line has no leading newline
	b.WriteString(strings.TrimPrefix(prefix, "\n") + " " + lines[0] + suffix)
	for _, line := range lines[1:] {
		b.WriteString(prefix + " " + line + suffix)
	}
	b.WriteString("\n")
	b.Write(content)
	return []byte(b.String()), nil
}
