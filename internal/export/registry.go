package export

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
)

var (
	mu        sync.RWMutex
	factories = make(map[string]ExporterFactory)
)

// Register makes an exporter available under name. Exporters register
// themselves from init, so registering a name twice panics.
func Register(name string, factory ExporterFactory) {
	mu.Lock()
	defer mu.Unlock()

	if factory == nil {
		panic("export: Register factory is nil for " + name)
	}
	if _, dup := factories[name]; dup {
		panic("export: Register called twice for " + name)
	}
	factories[name] = factory
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// New returns a fresh exporter for format.
func New(format string) (Exporter, error) {
	mu.RLock()
	factory, ok := factories[format]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown export format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
	return factory(), nil
}

// Write exports s to w in format.
func Write(format string, w io.Writer, s Snapshot) error {
	e, err := New(format)
	if err != nil {
		return err
	}
	if err := e.Export(w, s); err != nil {
		return fmt.Errorf("exporting %s: %w", format, err)
	}
	return nil
}
