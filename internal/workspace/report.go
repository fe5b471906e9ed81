package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report wraps an analysis saved under its content hash.
type Report struct {
	Title    string `json:"title"`
	Source   string `json:"source,omitempty"`
	Hash     string `json:"hash"`
	Analysis any    `json:"analysis"`
}

func ReportPath(base, hash string) (string, error) {
	if hash == "" || strings.Trim(hash, "0123456789abcdef") != "" {
		return "", fmt.Errorf("invalid report hash %q", hash)
	}
	return filepath.Join(base, "reports", hash+".json"), nil
}

func SaveReport(base string, report Report) (string, error) {
	path, err := ReportPath(base, report.Hash)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// LoadReport reads a saved report; analysis receives the decoded analysis payload.
func LoadReport(base, hash string, analysis any) (*Report, error) {
	path, err := ReportPath(base, hash)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	r := Report{Analysis: analysis}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
