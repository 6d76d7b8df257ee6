package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/shimgen/manifest"
	"github.com/chazu/shimgen/model"
	"github.com/chazu/shimgen/modeldb"
)

// loadManifest finds shimgen.toml at or above dir, falling back to the
// defaults rooted at dir.
func loadManifest(dir string) (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	if m == nil {
		log.Debugf("no %s found from %s, using defaults", manifest.FileName, dir)
		return manifest.Default(dir)
	}
	log.Debugf("using %s", filepath.Join(m.Dir, manifest.FileName))
	return m, nil
}

// modelPath returns the model named on the command line, or the
// manifest's model when none is given.
func modelPath(args []string, m *manifest.Manifest) (string, error) {
	switch len(args) {
	case 0:
		return m.ModelPath(), nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one model file, got %d", len(args))
	}
}

func isDatabase(path string) bool {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// readModel reads and validates a model in any supported format.
func readModel(path string) (*model.File, error) {
	if isDatabase(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		return modeldb.ReadFile(path)
	}
	return model.ReadFile(path)
}

// writeModel writes f in the format chosen by the extension of path.
func writeModel(path string, f *model.File) error {
	if isDatabase(path) {
		return modeldb.WriteFile(path, f)
	}

	var data []byte
	var err error
	switch ext := filepath.Ext(path); ext {
	case ".cbor":
		data, err = model.MarshalSnapshot(f)
	case ".toml":
		data, err = model.EncodeTOML(f)
	default:
		return fmt.Errorf("%s: unsupported model format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
