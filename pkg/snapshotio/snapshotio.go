// Package snapshotio reads and writes household snapshots as YAML, JSON or
// TOML, chosen by file extension.
package snapshotio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/iwvelando/debt-roadmap/internal/household"
	"gopkg.in/yaml.v3"
)

// Codec identifies a snapshot encoding.
type Codec string

const (
	YAML Codec = "yaml"
	JSON Codec = "json"
	TOML Codec = "toml"
)

// CodecFor picks the codec for a file name by its extension.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot file extension %q (expected .yaml, .yml, .json or .toml)", filepath.Ext(path))
	}
}

// Decode reads a snapshot in the given encoding.
func Decode(r io.Reader, codec Codec) (household.Snapshot, error) {
	var snapshot household.Snapshot
	data, err := io.ReadAll(r)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read snapshot: %w", err)
	}

	switch codec {
	case YAML:
		err = yaml.Unmarshal(data, &snapshot)
	case JSON:
		err = json.Unmarshal(data, &snapshot)
	case TOML:
		err = toml.Unmarshal(data, &snapshot)
	default:
		return snapshot, fmt.Errorf("unsupported snapshot codec %q", codec)
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to decode %s snapshot: %w", codec, err)
	}
	return snapshot, nil
}

// Encode writes a snapshot in the given encoding.
func Encode(w io.Writer, snapshot household.Snapshot, codec Codec) error {
	var buf bytes.Buffer
	switch codec {
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml snapshot: %w", err)
		}
	case JSON:
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json snapshot: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case TOML:
		if err := toml.NewEncoder(&buf).Encode(snapshot); err != nil {
			return fmt.Errorf("failed to encode toml snapshot: %w", err)
		}
	default:
		return fmt.Errorf("unsupported snapshot codec %q", codec)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (household.Snapshot, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return household.Snapshot{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return household.Snapshot{}, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, codec)
}

// WriteFile encodes the snapshot to path, creating parent directories.
func WriteFile(path string, snapshot household.Snapshot) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	if err := Encode(f, snapshot, codec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
