// Package docstore loads and persists status documents on disk. It
// recognizes every historical file naming convention and always writes the
// current canonical shape.
package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/memorymusicllc/pow3r/core/norm"
	"github.com/memorymusicllc/pow3r/schema"
)

// Historical status document file names. The suffix form covers the
// per-project convention ({name}.pow3r.status.json).
const (
	statusSuffix     = ".pow3r.status.json"
	legacyStatusFile = "power.status.json"
	configStatusFile = "pow3r.status.config.json"
)

// LoadResult pairs the successfully loaded documents with the records of
// everything that had to be skipped.
type LoadResult struct {
	Documents []*schema.StatusDocument
	Skips     []schema.SkipRecord
}

// IsStatusFile reports whether a file name matches one of the recognized
// status document conventions.
func IsStatusFile(name string) bool {
	return strings.HasSuffix(name, statusSuffix) ||
		name == legacyStatusFile ||
		name == configStatusFile
}

// LoadDir loads every status document found directly in the given
// directories. A malformed file never aborts the load; it is recorded as a
// skip and reported alongside the documents that did parse.
func LoadDir(dirs ...string) (*LoadResult, error) {
	result := &LoadResult{}

	paths, err := collectPaths(dirs)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			result.Skips = append(result.Skips, schema.SkipRecord{
				Kind:   schema.SkipMalformedDocument,
				Source: path,
				Detail: err.Error(),
			})
			continue
		}
		if doc.Source == "" {
			doc.Source = path
		}
		result.Documents = append(result.Documents, doc)
	}

	return result, nil
}

// collectPaths gathers the sorted recognized file paths across directories.
func collectPaths(dirs []string) ([]string, error) {
	var paths []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading documents directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsStatusFile(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile reads and normalizes one status document of any known generation.
func LoadFile(path string) (*schema.StatusDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := norm.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// WriteDocument persists a document in the canonical shape. The write is
// atomic: content goes to a temp file in the target directory first, then
// renames over the destination.
func WriteDocument(doc *schema.StatusDocument, path string) error {
	doc.SchemaVersion = schema.SchemaV3

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	payload = append(payload, '\n')

	return writeAtomic(path, payload)
}

// WriteAggregate persists an aggregated graph as indented JSON, atomically.
func WriteAggregate(graph *schema.AggregateGraph, path string) error {
	payload, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding aggregate graph: %w", err)
	}
	payload = append(payload, '\n')

	return writeAtomic(path, payload)
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partial document.
func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pow3r-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// DocumentFileName returns the canonical per-project file name.
func DocumentFileName(projectName string) string {
	return projectName + statusSuffix
}
