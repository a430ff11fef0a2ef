package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ReadFile returns the raw key/value pairs of a config file. A missing
// file yields os.ErrNotExist.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config location
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// SetValue parses raw for key and stores it in the file at path, creating
// the file and its directory if needed. It returns the stored value.
func SetValue(path, key, raw string) (any, error) {
	k, ok := LookupKey(key)
	if !ok {
		return nil, fmt.Errorf("unknown key %q", key)
	}
	value, err := k.Parse(raw)
	if err != nil {
		return nil, err
	}

	values, err := ReadFile(path)
	if err != nil {
		// Start fresh if missing or invalid
		values = make(map[string]any)
	}
	values[key] = value

	if err := WriteFile(path, values); err != nil {
		return nil, err
	}
	return value, nil
}

// UnsetValue removes key from the file at path. It reports whether the key
// was present.
func UnsetValue(path, key string) (bool, error) {
	values, err := ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if _, exists := values[key]; !exists {
		return false, nil
	}
	delete(values, key)
	return true, WriteFile(path, values)
}

// WriteFile writes values as indented JSON, creating the directory.
func WriteFile(path string, values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomicWriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// atomicWriteFile writes data to a file atomically using temp+rename.
// Files are always created with 0600 permissions (owner read/write only).
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Windows: rename fails when destination exists. Try rename first to
	// preserve the old file on unrelated errors; only remove+retry on failure.
	err = os.Rename(tmpPath, path)
	if err != nil && runtime.GOOS == "windows" {
		_ = os.Remove(path)
		return os.Rename(tmpPath, path)
	}
	return err
}
