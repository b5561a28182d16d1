package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Jobs
	jh := JobsHandler{Deps: d}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/cards", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Cards,
	}))

	// Filter dropdowns
	fh := FiltersHandler{Deps: d}
	mux.HandleFunc("/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.List,
	}))

	// Dataset loading
	dh := DatasetHandler{Deps: d}
	mux.HandleFunc("/dataset", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Upload,
	}))
	mux.HandleFunc("/dataset/reload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Reload,
	}))
	mux.HandleFunc("/dataset/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Status,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{LoadStatus: d.LoadStatus}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
