// Package sysinfo gathers the inventory data the rest of the tool depends
// on: who the system is (project, customer, order) from syscheck, and what
// it is (baseboard vendor, model, serial, BIOS/IPMI versions) from the DMI
// tables and ipmicfg. Board classification decides which vendor tool and
// which settings dialect apply.
package sysinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yumaojun03/dmidecode"

	"github.com/vios-project/vios/pkg/settings"
)

var ipmiVersionPattern = regexp.MustCompile(`Firmware Version\s*:\s+(.*)`)

// Info holds everything gathered about the system. The tracking fields
// stamp uploaded golden templates; the board fields select the vendor tool.
type Info struct {
	// Tracking information
	ProjectNumber string
	SMNumber      string
	Customer      string
	Order         string
	Date          time.Time

	// Baseboard information
	Board       settings.BoardKind
	Model       string
	Serial      string
	BIOSVersion string
	IPMIVersion string
}

// SystemID is the key the capture store files this system under.
func (i *Info) SystemID() string {
	if i.Serial != "" {
		return i.Serial
	}
	return i.SMNumber
}

// syscheckReport mirrors the JSON emitted by `syscheck -t --json`.
type syscheckReport struct {
	ProjectNumber string `json:"Project Number"`
	SMNumber      string `json:"SM Number"`
	CustomerName  string `json:"Customer Name"`
	Components    struct {
		Motherboard struct {
			Manufacturer string `json:"Manufacturer"`
		} `json:"Motherboard"`
	} `json:"Components"`
	Tracking struct {
		Order  string `json:"Order"`
		Serial string `json:"Serial"`
	} `json:"Trogdor"`
}

// Gather queries syscheck for tracking data, the DMI tables for baseboard
// identity, and ipmicfg for the BMC firmware version. syscheck is required;
// the DMI read doubles as a board-classification fallback when syscheck has
// no motherboard record.
func Gather(ctx context.Context, runner Runner) (*Info, error) {
	info := &Info{Date: time.Now()}

	out, err := runner.Run(ctx, "syscheck", "-t", "--json")
	if err != nil {
		return nil, fmt.Errorf("syscheck failed, is it installed and configured: %w", err)
	}
	var report syscheckReport
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("cannot decode syscheck output: %w", err)
	}

	info.ProjectNumber = report.ProjectNumber
	info.SMNumber = report.SMNumber
	info.Customer = report.CustomerName
	info.Order = report.Tracking.Order
	info.Serial = report.Tracking.Serial
	info.Board = ClassifyBoard(report.Components.Motherboard.Manufacturer)

	if err := info.readDMI(); err != nil {
		// DMI tables need root; the tracking data is still usable, so keep
		// going with whatever syscheck gave us.
		log.Warn().Err(err).Msg("Cannot read DMI tables")
	}

	if out, err := runner.Run(ctx, "ipmicfg", "-ver"); err == nil {
		if m := ipmiVersionPattern.FindSubmatch(out); m != nil {
			info.IPMIVersion = strings.TrimSpace(string(m[1]))
		}
	} else {
		log.Warn().Err(err).Msg("ipmicfg not available, IPMI version unknown")
	}

	return info, nil
}

// ClassifyBoard maps a baseboard manufacturer string to a [settings.BoardKind].
func ClassifyBoard(manufacturer string) settings.BoardKind {
	switch {
	case strings.Contains(strings.ToLower(manufacturer), "supermicro"):
		return settings.BoardSupermicro
	case strings.Contains(strings.ToLower(manufacturer), "intel"):
		return settings.BoardIntel
	default:
		return settings.BoardOther
	}
}

// readDMI fills the baseboard fields from the SMBIOS tables and, when the
// syscheck inventory had no motherboard record, re-classifies the board
// from the DMI manufacturer string.
func (i *Info) readDMI() error {
	dmi, err := dmidecode.New()
	if err != nil {
		return err
	}

	boards, err := dmi.BaseBoard()
	if err != nil {
		return err
	}
	if len(boards) > 0 {
		i.Model = boards[0].ProductName
		if i.Serial == "" {
			i.Serial = boards[0].SerialNumber
		}
		if i.Board == settings.BoardOther {
			i.Board = ClassifyBoard(boards[0].Manufacturer)
		}
	}

	bios, err := dmi.BIOS()
	if err != nil {
		return err
	}
	if len(bios) > 0 {
		i.BIOSVersion = bios[0].BIOSVersion
	}
	return nil
}
