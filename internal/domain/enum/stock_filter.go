package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StockFilter narrows the inventory view by stock situation.
type StockFilter int

const (
	StockAll  StockFilter = 0
	StockLow  StockFilter = 1 // some stock left but below the reorder point
	StockZero StockFilter = 2
)

func (s StockFilter) String() string {
	switch s {
	case StockLow:
		return "BAJO"
	case StockZero:
		return "CERO"
	default:
		return ""
	}
}

// ParseStockFilter reads the query value used by the inventory screen.
func ParseStockFilter(s string) (StockFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TODOS", "ALL":
		return StockAll, nil
	case "BAJO", "LOW":
		return StockLow, nil
	case "CERO", "ZERO":
		return StockZero, nil
	}
	return StockAll, fmt.Errorf("unknown stock filter %q", s)
}

func (s StockFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StockFilter) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseStockFilter(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
