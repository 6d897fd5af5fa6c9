package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func LoadPriceJSON(path string) (*PriceResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp PriceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SavePriceJSON writes a response to a JSON file so a fetched window
// can be reused offline.
func SavePriceJSON(resp *PriceResponse, path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write prices file: %w", err)
	}

	return nil
}
