// Package manifest records what happened to every row of an upload run.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row outcomes.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Record is the outcome of one source row
type Record struct {
	Row       int    `yaml:"row" json:"row" parquet:"row"`
	SKU       string `yaml:"sku" json:"sku" parquet:"sku"`
	PublicID  string `yaml:"publicid,omitempty" json:"public_id,omitempty" parquet:"public_id,optional"`
	SourceURL string `yaml:"sourceurl,omitempty" json:"source_url,omitempty" parquet:"source_url,optional"`
	SecureURL string `yaml:"secureurl,omitempty" json:"secure_url,omitempty" parquet:"secure_url,optional"`
	ImageSrc  string `yaml:"imagesrc,omitempty" json:"image_src,omitempty" parquet:"image_src,optional"`
	Status    string `yaml:"status" json:"status" parquet:"status"`
	Error     string `yaml:"error,omitempty" json:"error,omitempty" parquet:"error,optional"`
}

// RunInfo describes the run a manifest belongs to
type RunInfo struct {
	Source    string `yaml:"source"`
	Sheet     string `yaml:"sheet"`
	Dest      string `yaml:"dest"`
	Folder    string `yaml:"folder"`
	Transform string `yaml:"transform"`
	Attempted int    `yaml:"attempted"`
	Processed int    `yaml:"processed"`
	Timestamp string `yaml:"timestamp"`
}

// Document is the YAML layout of a manifest
type Document struct {
	Run     RunInfo  `yaml:"run"`
	Records []Record `yaml:"records"`
}

// Save writes records to path. The format follows the extension: .yaml/.yml
// keeps run info alongside the records, .parquet and .jsonl hold records only.
func Save(path string, info RunInfo, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	if info.Timestamp == "" {
		info.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return saveYAML(path, Document{Run: info, Records: records})
	case ".parquet":
		if err := parquet.WriteFile(path, records); err != nil {
			return fmt.Errorf("failed to write parquet manifest: %w", err)
		}
		return nil
	case ".jsonl":
		return saveJSONL(path, records)
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: .yaml, .yml, .parquet, .jsonl)", ext)
	}
}

func saveYAML(path string, doc Document) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func saveJSONL(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record for row %d: %w", r.Row, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return file.Close()
}
