package theme

import "github.com/docsmith/docsmith/internal/theme/chapterlabel"

// Docs returns the theme configuration the documentation site ships with:
// the default theme extended with the ChapterLabel component. The hook
// registers against whatever application handle it is given, so tests can
// apply it to an isolated registry.
func Docs() Config {
	return Config{
		Name:    "docs",
		Extends: DefaultName,
		Enhance: func(app App) error {
			return app.Components().Register(chapterlabel.New())
		},
	}
}
