package record

import (
	"regexp"
	"strconv"
	"strings"
)

// Fallback values substituted for absent or empty fields. These are what the
// UI shows, so they read like copy, not like sentinels.
const (
	DefaultTitle  = "Unknown Title"
	DefaultType   = "Not specified"
	DefaultLevel  = "Not specified"
	DefaultSkill  = "Not specified"
	DefaultDetail = "No description provided"
	DefaultLink   = "#"
)

// Raw is one element of an uploaded dataset file, keys as they appear in the
// JSON. Every field is optional; non-string values simply fail to decode and
// fall through to the defaults.
type Raw struct {
	Title  string `json:"Title"`
	Posted string `json:"Posted"`
	Type   string `json:"Type"`
	Level  string `json:"Level"`
	Skill  string `json:"Skill"`
	Detail string `json:"Detail"`
	Link   string `json:"Job Page Link"`
}

// JobRecord is the canonical, fully-defaulted form of one posting. Records
// are built once at load time and never mutated; a new upload replaces the
// whole collection.
type JobRecord struct {
	Title         string `json:"title"`
	PostedMinutes int    `json:"postedMinutes"`
	Type          string `json:"type"`
	Level         string `json:"level"`
	Skill         string `json:"skill"`
	Detail        string `json:"detail"`
	Link          string `json:"link"`
}

// Normalize builds a JobRecord from a raw element, substituting defaults
// field by field. Presence is an explicit trimmed-empty check: a field whose
// value is literally "0" is a value, not an absence.
func Normalize(r Raw) JobRecord {
	return JobRecord{
		Title:         orDefault(r.Title, DefaultTitle),
		PostedMinutes: ParsePostedMinutes(r.Posted),
		Type:          orDefault(r.Type, DefaultType),
		Level:         orDefault(r.Level, DefaultLevel),
		Skill:         orDefault(r.Skill, DefaultSkill),
		Detail:        orDefault(r.Detail, DefaultDetail),
		Link:          orDefault(r.Link, DefaultLink),
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

var postedRe = regexp.MustCompile(`(\d+)\s+([A-Za-z]+)`)

// ParsePostedMinutes turns free text like "2 hours ago" into minutes since
// posted. Units match by prefix so singular and plural both work; an
// unrecognized unit keeps the count as-is (multiplier 1), and text with no
// count/unit pair at all means "just now" (0). Never negative, never errors.
func ParsePostedMinutes(posted string) int {
	m := postedRe.FindStringSubmatch(posted)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}

	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "minute"):
		return n
	case strings.HasPrefix(unit, "hour"):
		return n * 60
	case strings.HasPrefix(unit, "day"):
		return n * 1440
	default:
		return n
	}
}
