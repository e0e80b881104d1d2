// Package site holds the application instance a build or preview runs
// against: the site configuration, the resolved theme, and the component
// registry that theme bootstrap hooks populate.
package site

import (
	"errors"
	"fmt"
	"sync"

	"github.com/docsmith/docsmith/internal/component"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/theme"
)

// ErrAlreadyBootstrapped is returned when Bootstrap is called a second
// time on the same App. The theme contract guarantees hooks run exactly
// once per application instance; a repeated bootstrap indicates a wiring
// bug, not a recoverable condition.
var ErrAlreadyBootstrapped = errors.New("site: application already bootstrapped")

// App is the running site application. It owns the component registry for
// its lifetime and passes it, by reference, to the theme's bootstrap hook.
// Each App gets a fresh registry so tests and concurrent builds stay
// isolated.
type App struct {
	cfg      *config.Config
	themeCfg theme.Config

	mu           sync.Mutex
	bootstrapped bool

	registry *component.Registry
	base     theme.Theme
}

// New creates an application instance for the given site configuration
// and theme configuration. The App is inert until Bootstrap runs.
func New(cfg *config.Config, themeCfg theme.Config) *App {
	return &App{
		cfg:      cfg,
		themeCfg: themeCfg,
		registry: component.NewRegistry(),
	}
}

// Bootstrap resolves the base theme and runs the theme's bootstrap hook
// exactly once, passing this App as the handle. Errors from the hook,
// including component name collisions, propagate unmodified so that a
// misconfigured theme aborts startup.
func (a *App) Bootstrap() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.bootstrapped {
		return ErrAlreadyBootstrapped
	}

	base, err := a.themeCfg.Base()
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if a.themeCfg.Enhance != nil {
		if err := a.themeCfg.Enhance(a); err != nil {
			return fmt.Errorf("theme %q bootstrap hook: %w", a.themeCfg.Name, err)
		}
	}

	a.base = base
	a.bootstrapped = true
	return nil
}

// Components returns the application's component registry.
func (a *App) Components() *component.Registry { return a.registry }

// Config returns the site configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Theme returns the resolved base theme. It is nil before Bootstrap.
func (a *App) Theme() theme.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.base
}
