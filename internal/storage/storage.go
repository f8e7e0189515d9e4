// Package storage is the best-effort persistence adapter between the tracker
// and a raw key-value store. Failures are logged and contained here; callers
// never see them.
package storage

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/logging"
)

// Keys under which the tracker keeps its collections.
const (
	KeyTasks    = "tasks"
	KeyProjects = "projects"
	KeySettings = "settings"
)

// KV is the raw store. Get must return db.ErrNotFound for unknown keys.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Adapter serializes values into a KV.
type Adapter struct {
	kv  KV
	log *logging.Logger
}

// New wraps kv. A nil logger falls back to the process-wide one.
func New(kv KV, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{kv: kv, log: logger.WithComponent("storage")}
}

// Save encodes v as JSON and writes it under key. It never fails from the
// caller's point of view.
func (a *Adapter) Save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error("storage_save_failed", logging.Fields{"key": key, "error": err})
		return
	}
	if err := a.kv.Put(key, data); err != nil {
		a.log.Error("storage_save_failed", logging.Fields{"key": key, "error": err})
		return
	}
	a.log.Info("storage_saved", logging.Fields{"key": key, "bytes": len(data)})
}

// Load decodes the value under key into v. It returns false when the key is
// absent or the stored data cannot be decoded; v is left untouched then.
func (a *Adapter) Load(key string, v any) bool {
	data, err := a.kv.Get(key)
	if errors.Is(err, db.ErrNotFound) {
		return false
	}
	if err != nil {
		a.log.Error("storage_load_failed", logging.Fields{"key": key, "error": err})
		return false
	}
	if len(data) == 0 || string(data) == "null" {
		return false
	}

	// Decode into a fresh value so a half-decoded payload never leaks into v.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		a.log.Error("storage_load_failed", logging.Fields{"key": key, "error": "target is not a non-nil pointer"})
		return false
	}
	scratch := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		a.log.Error("storage_load_failed", logging.Fields{"key": key, "error": err})
		return false
	}
	rv.Elem().Set(scratch.Elem())
	return true
}
