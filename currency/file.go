package currency

import (
	"encoding/json"
	"fmt"
	"os"
)

// RatesFromFile reads a rate table from a JSON object of code → USD-relative
// rate, for deployments that maintain their own table.
func RatesFromFile(path string) (map[string]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rates file: %w", err)
	}

	var rates map[string]float64
	if err := json.Unmarshal(b, &rates); err != nil {
		return nil, fmt.Errorf("parsing rates file: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rates file %s is empty", path)
	}

	return rates, nil
}
