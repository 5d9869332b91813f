package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings persisted as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	return scanJSON(value, (*[]string)(l))
}

// Performances is the embedded, ordered list of exercise performances.
type Performances []Performance

func (p Performances) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Performance(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Performances) Scan(value any) error {
	return scanJSON(value, (*[]Performance)(p))
}

func scanJSON(value any, dest any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
