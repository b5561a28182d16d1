package httpapi

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"jobview-engine/internal/config"
	"jobview-engine/internal/dataset"
	"jobview-engine/internal/events"
	"jobview-engine/internal/record"
	"jobview-engine/internal/store"
)

type DatasetHandler struct {
	Deps
}

// Upload takes a whole dataset file as the request body and replaces the
// current record set with it. A body that fails to parse changes nothing:
// the previous set stays displayed and the caller gets a blocking error.
func (h DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.Dataset.MaxUploadBytes))
	if err != nil {
		WriteError(w, r, http.StatusRequestEntityTooLarge, "dataset_too_large", "dataset exceeds upload limit")
		return
	}

	records, err := dataset.Parse(body)
	if err != nil {
		h.recordFailure("upload", err)
		WriteError(w, r, http.StatusBadRequest, "invalid_dataset", err.Error())
		return
	}

	if err := ApplyDataset(r.Context(), h.Catalog, h.Hub, h.LoadStatus, RequestIDFrom(r.Context()), "upload", records); err != nil {
		WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true, "records": len(records)})
}

// Reload re-reads the dataset file named in config.
func (h DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	if cfg.Dataset.Path == "" {
		WriteError(w, r, http.StatusBadRequest, "no_dataset_path", "dataset.path is not configured")
		return
	}
	if h.ReloadLimiter != nil && !h.ReloadLimiter.Allow() {
		WriteError(w, r, http.StatusTooManyRequests, "reload_throttled", "reload requested too frequently")
		return
	}

	records, err := dataset.LoadFile(cfg.Dataset.Path)
	if err != nil {
		h.recordFailure("file", err)
		WriteError(w, r, http.StatusBadRequest, "invalid_dataset", err.Error())
		return
	}

	if err := ApplyDataset(r.Context(), h.Catalog, h.Hub, h.LoadStatus, RequestIDFrom(r.Context()), "file", records); err != nil {
		WriteStoreError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true, "records": len(records)})
}

func (h DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.LoadStatus.Load().(LoadStatus)
	writeJSON(w, st)
}

func (h DatasetHandler) recordFailure(source string, err error) {
	now := time.Now().Format(time.RFC3339)
	st := h.LoadStatus.Load().(LoadStatus)
	st.Source = source
	st.LastLoadAt = now
	st.LastError = err.Error()
	h.LoadStatus.Store(st)
}

// ApplyDataset swaps the record set in and reports the result: status
// update for /dataset/status, dataset_loaded event for connected viewers.
// Shared by the upload/reload handlers, the startup load, and the watcher.
func ApplyDataset(ctx context.Context, catalog *store.Catalog, hub *events.Hub, status *atomic.Value, reqID, source string, records []record.JobRecord) error {
	now := time.Now().Format(time.RFC3339)

	if err := catalog.Replace(ctx, records); err != nil {
		st := status.Load().(LoadStatus)
		st.Source = source
		st.LastLoadAt = now
		st.LastError = err.Error()
		status.Store(st)
		return err
	}

	status.Store(LoadStatus{
		Source:     source,
		LastLoadAt: now,
		LastOkAt:   now,
		LastError:  "",
		Records:    len(records),
	})
	hub.Publish(events.New(reqID, events.TypeDatasetLoaded, map[string]any{
		"source":  source,
		"records": len(records),
	}))
	return nil
}
