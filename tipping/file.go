package tipping

import (
	"encoding/json"
	"fmt"
	"os"
)

// NormsFromFile reads a tipping table from a JSON object of country code →
// per-service percentages.
func NormsFromFile(path string) (map[string]Norms, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tips file: %w", err)
	}

	var norms map[string]Norms
	if err := json.Unmarshal(b, &norms); err != nil {
		return nil, fmt.Errorf("parsing tips file: %w", err)
	}
	if len(norms) == 0 {
		return nil, fmt.Errorf("tips file %s is empty", path)
	}

	return norms, nil
}
