package postgres

import (
	"encoding/json"
	"fmt"
)

// toJSONB encodes v for a jsonb parameter. A nil slice is stored as an
// empty array so that containment queries never see null.
func toJSONB[T any](v []T) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode jsonb: %w", err)
	}
	return string(b), nil
}

// fromJSONB decodes a jsonb column into dst.
func fromJSONB[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 {
		*dst = []T{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode jsonb: %w", err)
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
