package httpapi

import (
	"net/http"
	"sync/atomic"
)

type HealthHandler struct {
	LoadStatus *atomic.Value // stores httpapi.LoadStatus
}

// Health answers liveness probes and gives the UI shell a one-call summary
// of whether a dataset is in place.
func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.LoadStatus.Load().(LoadStatus)
	writeJSON(w, map[string]any{
		"ok":         true,
		"dataset":    st.Source,
		"records":    st.Records,
		"last_ok_at": st.LastOkAt,
	})
}
