package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// Horizon is a threshold of practical significance for a difference between
// two benchmarks. Absolute horizons are in milliseconds; relative horizons
// are stored as a fraction of the denominator's mean (0.05 == 5%). An
// unsigned horizon applies symmetrically to both sides of zero.
type Horizon struct {
	Value    float64 `json:"value"`
	Relative bool    `json:"relative"`
	Signed   bool    `json:"signed"`
}

func (h Horizon) String() string {
	sign := ""
	if h.Signed && h.Value >= 0 {
		sign = "+"
	}
	if h.Relative {
		return fmt.Sprintf("%s%g%%", sign, h.Value*100)
	}
	return fmt.Sprintf("%s%gms", sign, h.Value)
}

// ParseHorizons parses a comma-delimited horizon list such as "0ms,+5%,-5%".
// Each token is a number suffixed with "ms" (absolute) or "%" (relative); a
// leading + or - makes the horizon signed. Duplicate tokens collapse to one.
func ParseHorizons(s string) ([]Horizon, error) {
	var horizons []Horizon
	seen := make(map[Horizon]bool)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		h, err := parseHorizon(token)
		if err != nil {
			return nil, err
		}
		if !seen[h] {
			seen[h] = true
			horizons = append(horizons, h)
		}
	}
	if len(horizons) == 0 {
		return nil, fmt.Errorf("no horizons in %q", s)
	}
	return horizons, nil
}

func parseHorizon(token string) (Horizon, error) {
	h := Horizon{}
	num := token
	switch {
	case strings.HasSuffix(token, "ms"):
		num = strings.TrimSuffix(token, "ms")
	case strings.HasSuffix(token, "%"):
		num = strings.TrimSuffix(token, "%")
		h.Relative = true
	default:
		return Horizon{}, fmt.Errorf("horizon %q must end in \"ms\" or \"%%\"", token)
	}
	if strings.HasPrefix(num, "+") || strings.HasPrefix(num, "-") {
		h.Signed = true
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Horizon{}, fmt.Errorf("horizon %q: invalid number: %w", token, err)
	}
	h.Value = v
	if h.Relative {
		h.Value /= 100
	}
	return h, nil
}
