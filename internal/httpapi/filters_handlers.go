package httpapi

import (
	"net/http"

	"jobview-engine/internal/store"
)

type FiltersHandler struct {
	Deps
}

// List returns the distinct values present in the current record set for
// each filter dimension, sorted, for the viewer's dropdowns. The UI owns
// the leading "All" option.
func (h FiltersHandler) List(w http.ResponseWriter, r *http.Request) {
	out := map[string][]string{}
	for name, facet := range map[string]store.Facet{
		"levels": store.FacetLevel,
		"types":  store.FacetType,
		"skills": store.FacetSkill,
	} {
		vals, err := h.Catalog.FacetValues(r.Context(), facet)
		if err != nil {
			WriteStoreError(w, r, err)
			return
		}
		if vals == nil {
			vals = []string{}
		}
		out[name] = vals
	}
	writeJSON(w, out)
}
