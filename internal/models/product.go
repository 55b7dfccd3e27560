package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Product represents one product card entry from the catalog document.
// Fields are unvalidated: the document owner decides what goes in them.
type Product struct {
	ID    Text `json:"id"`
	Name  Text `json:"name"`
	Price Text `json:"price"`
}

// Envelope is the catalog document shape: { "data": [ ... ] }
type Envelope struct {
	Data []Product `json:"data"`
}

// UnmarshalJSON decodes the envelope leniently. A top level that is not an
// object, or a missing, null or non-array "data" field, yields an empty
// sequence rather than an error.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	e.Data = nil

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	e.Data = make([]Product, len(elems))
	for i, elem := range elems {
		if err := json.Unmarshal(elem, &e.Data[i]); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes one product. An element that is not an object
// becomes a zero Product so it still renders as an empty card.
func (p *Product) UnmarshalJSON(b []byte) error {
	*p = Product{}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	type plain Product
	var v plain
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*p = Product(v)
	return nil
}

// Text is a display value that accepts a JSON string, number or null.
// Numbers keep their literal form so "9.99" and 9.99 render the same way.
type Text string

// String returns the display form
func (t Text) String() string {
	return string(t)
}

// UnmarshalJSON accepts strings, numbers, booleans and null
func (t *Text) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*t = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case trimmed[0] == '{' || trimmed[0] == '[':
		// Nested values have no display form
		*t = ""
		return nil
	default:
		*t = Text(strings.TrimSpace(string(trimmed)))
		return nil
	}
}

// MarshalJSON writes the value back as a JSON string
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}
