package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomaszdurka/prismarest/compiler/load"
)

// snapshotFile is the name of the schema snapshot inside the target
// directory.
const snapshotFile = ".prismarest.snapshot"

// writeSnapshot stores a compact copy of the schema next to the
// generated code, so later runs can tell whether the schema changed.
func writeSnapshot(c *Config, s *load.Schema) error {
	buf, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("prismarest: encode snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.Target, snapshotFile), buf, 0o644); err != nil {
		return fmt.Errorf("prismarest: write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads the schema snapshot of a previous run from the
// target directory. It returns nil without error when no snapshot
// exists.
func ReadSnapshot(c *Config) (*load.Schema, error) {
	buf, err := os.ReadFile(filepath.Join(c.Target, snapshotFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prismarest: read snapshot: %w", err)
	}
	s := &load.Schema{}
	if err := msgpack.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("prismarest: decode snapshot: %w", err)
	}
	return s, nil
}

// SchemaChanged reports whether the schema differs from the snapshot of
// the previous run. A missing snapshot counts as changed.
func SchemaChanged(c *Config, s *load.Schema) (bool, error) {
	prev, err := ReadSnapshot(c)
	if err != nil || prev == nil {
		return true, err
	}
	a, err := msgpack.Marshal(prev)
	if err != nil {
		return true, err
	}
	b, err := msgpack.Marshal(s)
	if err != nil {
		return true, err
	}
	return !bytes.Equal(a, b), nil
}
