package httpapi

import (
	"sync/atomic"

	"golang.org/x/time/rate"

	"jobview-engine/internal/config"
	"jobview-engine/internal/events"
	"jobview-engine/internal/store"
)

type Deps struct {
	Catalog *store.Catalog

	Hub *events.Hub

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	LoadStatus *atomic.Value // stores httpapi.LoadStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Guards POST /dataset/reload against a click-happy UI.
	ReloadLimiter *rate.Limiter
}
