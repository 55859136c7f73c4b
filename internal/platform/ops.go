package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/marl/pkg/adapters/file"
	"github.com/aretw0/marl/pkg/adapters/memory"
	"github.com/aretw0/marl/pkg/core"
)

// Init initializes a store based on the provided configuration. The 'uri'
// argument is adapter-specific (file path for 'file', ignored by 'memory').
//
// It returns the configured core.Store.
func Init(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Check for injected store
	if o.store != nil {
		return o.store, nil
	}

	// 2. Initialize based on adapter
	switch o.adapter {
	case "file":
		return initFile(uri, o)
	case "memory":
		idField, _ := o.config["id_field"].(string)
		return memory.NewStore(memory.Config{IDField: idField, Logger: o.logger}), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFile handles the initialization logic for the file adapter.
func initFile(path string, o *options) (core.Store, error) {
	idField, _ := o.config["id_field"].(string)
	readOnly, _ := o.config["read_only"].(bool)

	store := file.NewStore(file.Config{
		Path:     path,
		IDField:  idField,
		ReadOnly: readOnly,
		Logger:   o.logger,
	})
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}
