// Package classify maps uploaded file names to document types.
package classify

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// Group is an upload area. Each area accepts one family of templates.
type Group string

const (
	// GroupAuto classifies every file on its own name.
	GroupAuto Group = "auto"
	// GroupMCInfo accepts "MC Info" files only.
	GroupMCInfo Group = "mc"
	// GroupRelocation accepts relocation files only.
	GroupRelocation Group = "relocation"
	// GroupStock accepts stock machine files, normal or 二合一.
	GroupStock Group = "stock"
)

const (
	mcInfoMarker   = "MC Info"
	combinedMarker = "二合一"
)

var (
	relocationPattern = regexp.MustCompile(`(?i)relocation`)
	stockPattern      = regexp.MustCompile(`(?i)(Stock Machine|二合一)`)
)

// ErrNoMatch indicates a name matches none of the naming rules.
var ErrNoMatch = errors.New("file name matches no template")

var supportedExtensions = map[string]bool{
	".xls":  true,
	".xlsx": true,
	".xlsm": true,
}

// ParseGroup converts a user supplied group name.
func ParseGroup(s string) (Group, error) {
	switch g := Group(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupAuto, GroupMCInfo, GroupRelocation, GroupStock:
		return g, nil
	case "":
		return GroupAuto, nil
	case "mc_info", "mcinfo":
		return GroupMCInfo, nil
	default:
		return "", fmt.Errorf("invalid group: %s (must be auto, mc, relocation, or stock)", s)
	}
}

// Types returns the document types a group can produce.
func (g Group) Types() []models.DocumentType {
	switch g {
	case GroupMCInfo:
		return []models.DocumentType{models.MCInfo}
	case GroupRelocation:
		return []models.DocumentType{models.Relocation}
	case GroupStock:
		return []models.DocumentType{models.StockNormal, models.StockCombined}
	default:
		return models.DocumentTypes
	}
}

// ReportName is the download file name for the group's workbook.
func (g Group) ReportName() string {
	switch g {
	case GroupMCInfo:
		return "MC_Info_Data.xlsx"
	case GroupRelocation:
		return "Relocation_Data.xlsx"
	case GroupStock:
		return "Stock_Data.xlsx"
	default:
		return "Full_Consolidated_Report.xlsx"
	}
}

// SupportedExtension reports whether name ends in .xls, .xlsx or .xlsm, in any case.
func SupportedExtension(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Classify returns the document type for name, trying MC Info, Relocation
// and Stock rules in that order. The MC Info marker is case-sensitive.
func Classify(name string) (models.DocumentType, error) {
	for _, g := range []Group{GroupMCInfo, GroupRelocation, GroupStock} {
		if t, ok := match(g, name); ok {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoMatch, name)
}

// match applies the naming rule of a single upload area.
func match(g Group, name string) (models.DocumentType, bool) {
	switch g {
	case GroupMCInfo:
		if strings.Contains(name, mcInfoMarker) {
			return models.MCInfo, true
		}
	case GroupRelocation:
		if relocationPattern.MatchString(name) {
			return models.Relocation, true
		}
	case GroupStock:
		if stockPattern.MatchString(name) {
			if strings.Contains(name, combinedMarker) {
				return models.StockCombined, true
			}
			return models.StockNormal, true
		}
	case GroupAuto:
		t, err := Classify(name)
		return t, err == nil
	}
	return "", false
}

// File is an accepted file name paired with its document type.
type File struct {
	Name string
	Type models.DocumentType
}

// Validation is the outcome of checking a batch of names for one group.
type Validation struct {
	Group Group
	// Accepted holds files that pass both checks, in input order.
	Accepted []File
	// Ignored holds names with an unsupported extension.
	Ignored []string
	// Rejected holds names with a supported extension that match no rule.
	Rejected []string
}

// OK reports whether no name was rejected.
func (v Validation) OK() bool {
	return len(v.Rejected) == 0
}

// ValidateBatch checks every name before any extraction happens, so that all
// offending names of a batch are reported together.
func ValidateBatch(g Group, names []string) Validation {
	v := Validation{Group: g}
	for _, name := range names {
		if !SupportedExtension(name) {
			v.Ignored = append(v.Ignored, name)
			continue
		}
		t, ok := match(g, name)
		if !ok {
			v.Rejected = append(v.Rejected, name)
			continue
		}
		v.Accepted = append(v.Accepted, File{Name: name, Type: t})
	}
	return v
}
