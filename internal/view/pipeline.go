package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"jobview-engine/internal/record"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
	SortPostedAsc  SortKey = "posted-asc"
	SortPostedDesc SortKey = "posted-desc"
)

// ValidSortKey reports whether s is one of the accepted sort keys.
func ValidSortKey(s string) bool {
	switch SortKey(s) {
	case SortNone, SortTitleAsc, SortTitleDesc, SortPostedAsc, SortPostedDesc:
		return true
	}
	return false
}

// Query is one UI selection: three optional equality filters plus a sort
// key. An empty value (or the dropdown's literal "All") leaves that
// dimension unfiltered.
type Query struct {
	Level string
	Type  string
	Skill string
	Sort  SortKey
}

// Pipeline applies queries against a record set. Title comparisons are
// locale-aware, so the collation language is fixed at construction.
type Pipeline struct {
	tag language.Tag
}

func NewPipeline(locale string) Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Pipeline{tag: tag}
}

// Apply filters and sorts a copy of in. The input slice is never mutated;
// ties keep their stored order (stable sort).
func (p Pipeline) Apply(in []record.JobRecord, q Query) []record.JobRecord {
	out := make([]record.JobRecord, 0, len(in))
	for _, r := range in {
		if matches(r, q) {
			out = append(out, r)
		}
	}

	switch q.Sort {
	case SortTitleAsc, SortTitleDesc:
		// Collators carry internal buffers, so build one per call rather
		// than sharing across requests.
		coll := collate.New(p.tag)
		sort.SliceStable(out, func(i, j int) bool {
			if q.Sort == SortTitleDesc {
				return coll.CompareString(out[i].Title, out[j].Title) > 0
			}
			return coll.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortPostedAsc:
		// Fewest minutes since posted first, i.e. newest first.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedMinutes < out[j].PostedMinutes
		})
	case SortPostedDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedMinutes > out[j].PostedMinutes
		})
	}
	return out
}

func matches(r record.JobRecord, q Query) bool {
	return dimensionOK(q.Level, r.Level) &&
		dimensionOK(q.Type, r.Type) &&
		dimensionOK(q.Skill, r.Skill)
}

func dimensionOK(selected, have string) bool {
	if selected == "" || selected == "All" {
		return true
	}
	return selected == have
}
