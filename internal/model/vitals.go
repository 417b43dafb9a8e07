package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vital is a single named measurement, e.g. bp=120/80.
type Vital struct {
	Name  string
	Value string
}

// Vitals is an insertion-ordered mapping from vital name to value. It
// serializes as a JSON object whose keys keep insertion order so that
// composed prompts and output files are byte-for-byte reproducible.
type Vitals []Vital

// Set assigns value to name. An existing name keeps its position.
func (v *Vitals) Set(name, value string) {
	for i := range *v {
		if (*v)[i].Name == name {
			(*v)[i].Value = value
			return
		}
	}
	*v = append(*v, Vital{Name: name, Value: value})
}

// Get returns the value for name.
func (v Vitals) Get(name string) (string, bool) {
	for _, vt := range v {
		if vt.Name == name {
			return vt.Value, true
		}
	}
	return "", false
}

func (v Vitals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, vt := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(vt.Name)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(vt.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *Vitals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*v = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("vitals: expected object, got %v", tok)
	}
	out := Vitals{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("vitals %q: %w", key, err)
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*v = out
	return nil
}

func marshalNoEscape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
