package dashboard

// WidgetState tracks one fetched resource.
type WidgetState[T any] struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Data    *T     `json:"data"`
}

// Idle is a settled state with the given data, which may be nil.
func Idle[T any](data *T) WidgetState[T] {
	return WidgetState[T]{Data: data}
}

// Begin marks the state as loading and clears the error, keeping data.
func (s WidgetState[T]) Begin() WidgetState[T] {
	return WidgetState[T]{Loading: true, Data: s.Data}
}

// Succeed commits fresh data.
func (s WidgetState[T]) Succeed(data T) WidgetState[T] {
	return WidgetState[T]{Data: &data}
}

// Fail records an error. retained replaces the data, nil clears it.
func (s WidgetState[T]) Fail(message string, retained *T) WidgetState[T] {
	return WidgetState[T]{Error: message, Data: retained}
}

// HasError reports whether the last fetch failed.
func (s WidgetState[T]) HasError() bool { return s.Error != "" }

// StatusLabel summarises the state for a widget header.
func StatusLabel(loading bool, err string) string {
	switch {
	case loading:
		return "Loading..."
	case err != "":
		return "Error"
	default:
		return "Synced"
	}
}
