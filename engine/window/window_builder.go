package window

import "log/slog"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		if title != "" {
			w.title = title
		}
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width, height: initial size in pixels, non-positive values keep the default
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithHidden opens the window invisible, for offscreen rendering.
//
// Parameters:
//   - hidden: true to hide the window
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHidden(hidden bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.hidden = hidden
	}
}

// WithLogger routes window diagnostics to l.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithLogger(l *slog.Logger) WindowBuilderOption {
	return func(w *engineWindow) {
		if l != nil {
			w.logger = l
		}
	}
}
