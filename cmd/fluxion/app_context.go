package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fluxionhq/fluxion/internal/app"
	"github.com/fluxionhq/fluxion/internal/ports"
	"github.com/fluxionhq/fluxion/internal/statestore"
)

// AppContext bundles the long-lived services created at startup.
type AppContext struct {
	Logger ports.Logger
	Store  statestore.Store
}

// CommandContext returns the command's context (falling back to Background)
// together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to the given component.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}

// NewHost assembles a host with a logger tagged with component, the shared
// state store, and any extra host options (such as a dashboard hook).
func (a *AppContext) NewHost(component string, opts ...app.Option) *app.Host {
	return app.NewHost(a.LoggerFor(component), a.Store, opts...)
}
