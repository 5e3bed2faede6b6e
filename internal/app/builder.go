package app

import (
	"go.trai.ch/compass/internal/core/ports"
)

// Components is what the command layer receives from the node graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents groups app and logger.
func NewComponents(a *App, logger ports.Logger) *Components {
	return &Components{App: a, Logger: logger}
}
