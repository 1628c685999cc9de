package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Load decodes the JSON document at path into dst. A missing, unreadable,
// or malformed document leaves dst untouched; the specific cause is logged
// but never surfaced to the caller. Repository code must therefore treat a
// loaded document with empty required fields the same as a missing one.
func Load(path string, dst any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Document %s does not exist", path)
		} else {
			log.Printf("Failed to read document %s: %v", path, err)
		}
		return
	}

	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("Document %s is not valid JSON: %v", path, err)
	}
}

// Store serializes doc as UTF-8 JSON and writes it to path, creating or
// replacing the file. Non-ASCII text is written as-is rather than escaped
// into \uXXXX sequences. The document is written to a temp file in the
// same directory and renamed into place, so a concurrent reader observes
// either the old document or the new one, never a torn write.
func Store(path string, doc any) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".document_tmp_")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close document %s: %w", path, err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename document into %s: %w", path, err)
	}
	return nil
}

// marshalDocument encodes doc with HTML escaping disabled so multilingual
// titles round-trip byte-for-byte.
func marshalDocument(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
