package merge

import (
	"fmt"
	"strings"
)

// Strategy decides how a recorded altitude and a database elevation are
// reconciled for one point.
type Strategy int

const (
	// Replace always uses the database elevation.
	Replace Strategy = iota
	// FillMissing keeps a recorded altitude and only looks up points whose
	// altitude is 0.
	FillMissing
	// Validate keeps a recorded altitude when it is within the tolerance of
	// the database elevation and uses the database value otherwise.
	Validate
)

var strategyNames = map[Strategy]string{
	Replace:     "replace",
	FillMissing: "fill-missing",
	Validate:    "validate",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// ParseStrategy accepts the strategy names as well as the numeric options
// 0, 1 and 2.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "replace":
		return Replace, nil
	case "1", "fill", "fill-missing", "fillmissing":
		return FillMissing, nil
	case "2", "validate", "check":
		return Validate, nil
	}
	return Replace, fmt.Errorf("unknown merge strategy %q (want replace, fill-missing or validate)", s)
}

// MarshalText lets strategies appear by name in JSON and YAML output.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid merge strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
