// Package render provides markdown rendering utilities for terminal output.
package render

// minWidth keeps narrow panels readable; glamour wraps every word below it.
const minWidth = 20

// Options configures the markdown renderer. Built from config by
// OptionsFromConfig; only the width changes per call site.
type Options struct {
	Width            int
	Style            string // built-in theme name or path to a JSON style file
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool // glamour v0.10.0+
	InlineTableLinks bool // glamour v0.10.0+
}

// DefaultOptions returns the options used when no config is available.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeCareer,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy wrapping at width columns, never below minWidth.
func (o Options) WithWidth(width int) Options {
	if width < minWidth {
		width = minWidth
	}
	o.Width = width
	return o
}
