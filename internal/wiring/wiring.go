// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/compass/internal/adapters/cache"
	_ "go.trai.ch/compass/internal/adapters/config"
	_ "go.trai.ch/compass/internal/adapters/dedup"
	_ "go.trai.ch/compass/internal/adapters/fetch"
	_ "go.trai.ch/compass/internal/adapters/filestore"
	_ "go.trai.ch/compass/internal/adapters/logger"
	_ "go.trai.ch/compass/internal/adapters/metrics"
	_ "go.trai.ch/compass/internal/adapters/parser"
	_ "go.trai.ch/compass/internal/adapters/versions"
	// Register app and engine nodes.
	_ "go.trai.ch/compass/internal/app"
	_ "go.trai.ch/compass/internal/engine/resolver"
)
