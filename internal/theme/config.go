package theme

import "fmt"

// Config describes the theme a site runs: a base theme to delegate to and
// an optional bootstrap hook. The hook receives the application handle
// once, during site bootstrap, before any content is rendered; its only
// intended effect is registering components against that handle.
//
// Extension is delegation, not inheritance: everything the Config does not
// add comes from the base theme unchanged.
type Config struct {
	// Name identifies the configuration, e.g. "docs". Informational.
	Name string

	// Extends names the base theme to delegate to. Empty means the
	// built-in default theme.
	Extends string

	// Enhance is invoked exactly once per application bootstrap with the
	// application handle. A nil hook is valid and means the base theme is
	// used as-is.
	Enhance func(App) error
}

// Base resolves the configured base theme.
func (c Config) Base() (Theme, error) {
	name := c.Extends
	if name == "" {
		name = DefaultName
	}
	t := Get(name)
	if t == nil {
		return nil, fmt.Errorf("unknown base theme %q", name)
	}
	return t, nil
}
