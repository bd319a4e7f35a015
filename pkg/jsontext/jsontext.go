// Package jsontext holds free-form JSON the UI attaches to chart rows
// (metadata, drawn point lists, snapshots). Values are stored as text: a JSON
// string is kept verbatim, any other JSON value is kept as its compact encoding.
package jsontext

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Text is a nullable text column fed from arbitrary JSON.
type Text struct {
	String string
	Valid  bool
}

// From returns a valid Text holding s.
func From(s string) Text {
	return Text{String: s, Valid: true}
}

// UnmarshalJSON accepts null, a JSON string, or any other JSON value.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Text{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = From(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*t = From(buf.String())
	return nil
}

// MarshalJSON writes the stored text as a JSON string, or null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String)
}

// Empty reports whether the value is null or blank.
func (t Text) Empty() bool {
	return !t.Valid || t.String == ""
}

// Len returns the stored length in bytes.
func (t Text) Len() int {
	return len(t.String)
}

// Parsed returns the stored text as raw JSON when it is valid JSON, else nil.
func (t Text) Parsed() json.RawMessage {
	if !t.Valid || !json.Valid([]byte(t.String)) {
		return nil
	}
	return json.RawMessage(t.String)
}

// Scan implements sql.Scanner.
func (t *Text) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Text{}
	case string:
		*t = From(v)
	case []byte:
		*t = From(string(v))
	default:
		return fmt.Errorf("jsontext: cannot scan %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t Text) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.String, nil
}
