package main

import (
	"fmt"

	"cadence/adapters/store"
	"cadence/internal/message"
	"cadence/internal/score"
)

func openStore() (store.Store, error) {
	st, err := store.Open(rootFlags.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", rootFlags.dbPath, err)
	}
	return st, nil
}

// loadWeights loads a weights config, falling back to the embedded
// default when no path is given.
func loadWeights(path string) (*score.Config, error) {
	if path == "" {
		return score.Default(), nil
	}
	cfg, err := score.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}
	return cfg, nil
}

// loadCatalog loads a message catalog, falling back to the embedded
// default when no path is given.
func loadCatalog(path string) (*message.Catalog, error) {
	if path == "" {
		return message.DefaultCatalog(), nil
	}
	c, err := message.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}
