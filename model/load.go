package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
)

// SnapshotVersion is the current CBOR snapshot format version.
const SnapshotVersion = 1

// snapshot is the CBOR envelope around a File.
type snapshot struct {
	Version int  `cbor:"version"`
	Model   File `cbor:"model"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("model: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// DecodeTOML parses a model file in TOML form.
func DecodeTOML(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("model: parse toml: %w", err)
	}
	return &f, nil
}

// EncodeTOML renders f in TOML form.
func EncodeTOML(f *File) ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(f); err != nil {
		return nil, fmt.Errorf("model: encode toml: %w", err)
	}
	return []byte(b.String()), nil
}

// MarshalSnapshot serializes f to canonical CBOR. Equal files produce
// identical bytes.
func MarshalSnapshot(f *File) ([]byte, error) {
	return cborEncMode.Marshal(&snapshot{Version: SnapshotVersion, Model: *f})
}

// UnmarshalSnapshot deserializes a CBOR snapshot.
func UnmarshalSnapshot(data []byte) (*File, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("model: unmarshal snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("model: unsupported snapshot version %d", s.Version)
	}
	return &s.Model, nil
}

// ReadFile reads a serialized model, choosing the decoder by extension
// (.toml or .cbor). The result is validated against the model schema.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f *File
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		f, err = DecodeTOML(data)
	case ".cbor":
		f, err = UnmarshalSnapshot(data)
	default:
		return nil, fmt.Errorf("%s: unsupported model format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := Validate(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadFile reads, validates and builds a model file.
func LoadFile(path string) (*Universe, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(f)
}
