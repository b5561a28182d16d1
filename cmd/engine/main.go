package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"jobview-engine/internal/config"
	"jobview-engine/internal/dataset"
	"jobview-engine/internal/events"
	"jobview-engine/internal/httpapi"
	"jobview-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (the UI shell can pass one), else local folder.
	dataDir := os.Getenv("JOBVIEW_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		for _, warning := range vr.Warnings {
			log.Printf("level=warn msg=\"config\" detail=%q", warning)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}
	catalog := store.NewCatalog(db.Pool)

	hub := events.NewHub()

	var loadStatus atomic.Value
	loadStatus.Store(httpapi.LoadStatus{Source: "none"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial dataset, if configured. A missing or broken file is a warning:
	// the viewer just starts empty and the user loads one by hand.
	reloadFile := func(ctx context.Context) error {
		records, err := dataset.LoadFile(cfg.Dataset.Path)
		if err != nil {
			return err
		}
		return httpapi.ApplyDataset(ctx, catalog, hub, &loadStatus, "", "file", records)
	}
	if cfg.Dataset.Path != "" {
		if err := reloadFile(ctx); err != nil {
			log.Printf("level=warn msg=\"initial dataset load failed\" path=%s err=%v", cfg.Dataset.Path, err)
		}
	}

	deps := httpapi.Deps{
		Catalog:       catalog,
		Hub:           hub,
		CfgVal:        &cfgVal,
		LoadStatus:    &loadStatus,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		ReloadLimiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	mux := httpapi.NewMux(deps)

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	// The UI shell reads the token so it can stop the engine on exit.
	tokenPath := filepath.Join(dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		log.Fatal(err)
	}
	defer os.Remove(tokenPath)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.AccessLog, httpapi.Recover, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel() // stop the watcher when the server exits
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		w := dataset.Watcher{
			Path:     cfg.Dataset.Path,
			Interval: time.Duration(cfg.Dataset.AutoReloadSeconds) * time.Second,
			Reload:   reloadFile,
		}
		w.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
