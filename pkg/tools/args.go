package tools

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/constellar/pkg/errors"
)

// common holds the arguments every tool accepts.
type common struct {
	Seed *uint64 `json:"seed,omitempty"`
}

// decodeArgs decodes raw into v. An empty raw decodes as an empty object.
// Top-level keys must name an argument of v; records nested inside
// arguments such as nodes or components may carry extra keys, which are
// ignored.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	var top map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&top); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode arguments")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "decode arguments: trailing data after object")
	}

	known := argNames(reflect.TypeOf(v))
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !known[k] {
			return errors.New(errors.ErrCodeInvalidInput, "unexpected argument %q", k)
		}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode arguments")
	}
	return nil
}

var argNameCache sync.Map // reflect.Type -> map[string]bool

// argNames returns the JSON names of t's fields, following embedded
// structs the way encoding/json does.
func argNames(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if names, ok := argNameCache.Load(t); ok {
		return names.(map[string]bool)
	}
	names := make(map[string]bool)
	collectArgNames(t, names)
	argNameCache.Store(t, names)
	return names
}

func collectArgNames(t reflect.Type, names map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectArgNames(f.Type, names)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[name] = true
	}
}

func required(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "missing required argument %q", name)
	}
	return *v, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func positive(name string, v float64) error {
	if v <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if v < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// peekSeed extracts the optional seed without decoding tool arguments.
func peekSeed(raw json.RawMessage) (*uint64, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var c common
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode arguments")
	}
	return c.Seed, nil
}

// canonical re-encodes raw with sorted object keys so equal argument sets
// hash identically regardless of field order or whitespace.
func canonical(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode arguments")
	}
	return v, nil
}
