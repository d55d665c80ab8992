package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BoolMap is a jsonb mapping of open-ended flag names to booleans, used for
// product certifications.
type BoolMap map[string]bool

// Value implements driver.Valuer for jsonb columns.
func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb columns.
func (m *BoolMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// StringList is a jsonb array of strings, used for question options and
// report highlights.
type StringList []string

// Value implements driver.Valuer for jsonb columns.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for jsonb columns.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// JSONMap is a free-form jsonb object, used for basic info, AI responses and
// nested report data.
type JSONMap map[string]interface{}

// Value implements driver.Valuer for jsonb columns.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb columns.
func (m *JSONMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
