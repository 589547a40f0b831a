package surface

import "log/slog"

// BindingBuilderOption is a functional option for configuring a Binding.
type BindingBuilderOption func(*bindingImpl)

// WithProvider forces a named provider instead of automatic selection.
//
// Parameters:
//   - name: the registered provider name
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithProvider(name string) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.provider = name
	}
}

// WithRegistry selects providers from r instead of the default registry.
//
// Parameters:
//   - r: the provider registry
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithRegistry(r *Registry) BindingBuilderOption {
	return func(b *bindingImpl) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithSize sets the initial drawing buffer size.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithSize(width, height int) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.options.Width = width
		b.options.Height = height
	}
}

// WithDeviceID selects the GPU for offscreen targets.
//
// Parameters:
//   - id: the device index
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithDeviceID(id int) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.options.DeviceID = id
	}
}

// WithTitle sets the window title for onscreen targets.
//
// Parameters:
//   - title: the title text
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithTitle(title string) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.options.Title = title
	}
}

// WithSizeHint registers a callback run with the new dimensions before every reallocation,
// typically to update the simulation's offscreen size hint.
//
// Parameters:
//   - hint: the callback
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithSizeHint(hint func(width, height int)) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.sizeHint = hint
	}
}

// WithReadbackWorkers sets the number of workers converting rows during readback.
//
// Parameters:
//   - n: worker count, 1 disables parallel readback
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithReadbackWorkers(n int) BindingBuilderOption {
	return func(b *bindingImpl) {
		b.readbackWorkers = n
	}
}

// WithLogger routes binding and provider diagnostics to l.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - BindingBuilderOption: option function to apply
func WithLogger(l *slog.Logger) BindingBuilderOption {
	return func(b *bindingImpl) {
		if l != nil {
			b.logger = l
		}
	}
}
