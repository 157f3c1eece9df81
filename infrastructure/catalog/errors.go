package catalog

import "errors"

var (
	// ErrCatalogNotFound indicates the catalog file does not exist.
	ErrCatalogNotFound = errors.New("catalog file not found")

	// ErrInvalidFormat indicates the catalog could not be parsed.
	ErrInvalidFormat = errors.New("invalid catalog format")

	// ErrUnsupportedFormat indicates an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrNoTools indicates the catalog parsed but contains no usable tools.
	ErrNoTools = errors.New("catalog contains no usable tools")

	// ErrNotLoaded indicates the store has not loaded a catalog yet.
	ErrNotLoaded = errors.New("catalog not loaded")
)
