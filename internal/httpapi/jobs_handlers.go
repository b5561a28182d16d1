package httpapi

import (
	"net/http"
	"net/url"

	"jobview-engine/internal/config"
	"jobview-engine/internal/record"
	"jobview-engine/internal/view"
)

type JobsHandler struct {
	Deps
}

// List returns the current record set filtered and sorted per the query
// string: ?level=&type=&skill=&sort=. Empty or "All" leaves a dimension
// unfiltered; an unknown sort key falls back to the configured default.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, q, err := h.selection(r)
	if err != nil {
		WriteStoreError(w, r, err)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	out := view.NewPipeline(cfg.View.Locale).Apply(records, q)
	if out == nil {
		out = []record.JobRecord{}
	}
	writeJSON(w, out)
}

// Cards returns the same selection rendered as an HTML fragment of job
// cards, so the viewer page can drop it straight into the list container.
func (h JobsHandler) Cards(w http.ResponseWriter, r *http.Request) {
	records, q, err := h.selection(r)
	if err != nil {
		WriteStoreError(w, r, err)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	out := view.NewPipeline(cfg.View.Locale).Apply(records, q)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.RenderCards(w, out); err != nil {
		// Headers are gone by now; just log via the access log status.
		return
	}
}

func (h JobsHandler) selection(r *http.Request) ([]record.JobRecord, view.Query, error) {
	records, err := h.Catalog.All(r.Context())
	if err != nil {
		return nil, view.Query{}, err
	}
	return records, h.queryFrom(r.URL.Query()), nil
}

func (h JobsHandler) queryFrom(vals url.Values) view.Query {
	cfg := h.CfgVal.Load().(config.Config)

	sort := vals.Get("sort")
	if !view.ValidSortKey(sort) {
		sort = cfg.View.DefaultSort
	}

	return view.Query{
		Level: vals.Get("level"),
		Type:  vals.Get("type"),
		Skill: vals.Get("skill"),
		Sort:  view.SortKey(sort),
	}
}
