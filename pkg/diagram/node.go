package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/constellar/pkg/errors"
)

// Node is a flowchart step.
type Node struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"type"`
	Label string `json:"label,omitempty"`
	Next  Next   `json:"next,omitzero"`
}

// Branch is one keyed outgoing edge of a decision node.
type Branch struct {
	Key    string // Branch label such as "yes" or "no"
	Target string // ID of the successor
}

// Next holds a node's successors. It is either a single Target or, for
// decisions, an ordered list of Branches. In JSON it is a string or an
// object mapping branch keys to node IDs; key order is preserved.
type Next struct {
	Target   string
	Branches []Branch
}

// To returns a plain successor reference.
func To(id string) Next { return Next{Target: id} }

// Branches returns a keyed successor reference. Pairs are given as
// alternating key, target strings.
func Branches(pairs ...string) Next {
	if len(pairs)%2 != 0 {
		panic("diagram: Branches requires key/target pairs")
	}
	n := Next{Branches: make([]Branch, 0, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		n.Branches = append(n.Branches, Branch{Key: pairs[i], Target: pairs[i+1]})
	}
	return n
}

// IsBranch reports whether the successors were given as a keyed map.
func (n Next) IsBranch() bool { return n.Branches != nil }

// IsZero reports whether the node has no successors at all.
func (n Next) IsZero() bool { return n.Target == "" && n.Branches == nil }

// Targets returns every successor ID in declaration order. Branch targets
// are returned even when empty; an empty plain target means no successor.
func (n Next) Targets() []string {
	if n.IsBranch() {
		ids := make([]string, len(n.Branches))
		for i, b := range n.Branches {
			ids[i] = b.Target
		}
		return ids
	}
	if n.Target == "" {
		return nil
	}
	return []string{n.Target}
}

// MarshalJSON encodes n as a string, an ordered object, or null.
func (n Next) MarshalJSON() ([]byte, error) {
	if !n.IsBranch() {
		if n.Target == "" {
			return []byte("null"), nil
		}
		return json.Marshal(n.Target)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range n.Branches {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.Target)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts null, a node ID string, or an object whose values
// are node ID strings. Any other shape is a malformed record.
func (n *Next) UnmarshalJSON(data []byte) error {
	*n = Next{}

	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &n.Target)
	case data[0] == '{':
		return n.decodeBranches(data)
	default:
		return errors.New(errors.ErrCodeMalformedSuccessor, "next must be a node id or a branch map, got %s", truncate(data))
	}
}

func (n *Next) decodeBranches(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return errors.Wrap(errors.ErrCodeMalformedSuccessor, err, "decode branch map")
	}

	n.Branches = []Branch{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(errors.ErrCodeMalformedSuccessor, err, "decode branch map")
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedSuccessor, err, "decode branch %q", key)
		}
		var target string
		if err := json.Unmarshal(raw, &target); err != nil {
			return errors.New(errors.ErrCodeMalformedSuccessor, "branch %q must map to a node id, got %s", key, truncate(raw))
		}
		n.setBranch(key, target)
	}
	return nil
}

// setBranch records key -> target. A repeated key keeps its first position
// and takes the last target.
func (n *Next) setBranch(key, target string) {
	for i := range n.Branches {
		if n.Branches[i].Key == key {
			n.Branches[i].Target = target
			return
		}
	}
	n.Branches = append(n.Branches, Branch{Key: key, Target: target})
}

// Component is a box in an architecture diagram. Layer is the explicit row;
// a missing layer means row 0.
type Component struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
	Layer *int   `json:"layer,omitempty"`
}

// UnmarshalJSON accepts a layer written as a whole float such as 1.0.
// Fractional layers fail with INVALID_LAYER.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string   `json:"id"`
		Kind  Kind     `json:"type"`
		Label string   `json:"label"`
		Layer *float64 `json:"layer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Component{ID: raw.ID, Kind: raw.Kind, Label: raw.Label}
	if raw.Layer != nil {
		l := *raw.Layer
		if l != math.Trunc(l) || math.Abs(l) > math.MaxInt32 {
			return errors.New(errors.ErrCodeInvalidLayer, "component %q: layer must be a whole number, got %g", raw.ID, l)
		}
		layer := int(l)
		c.Layer = &layer
	}
	return nil
}

// Row returns the component's layer, defaulting to 0.
func (c Component) Row() int {
	if c.Layer == nil {
		return 0
	}
	return *c.Layer
}

// Connection is a directed, optionally captioned link between components.
type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts "from1" as an alias for "from", which some
// generators emit to avoid the reserved word.
func (c *Connection) UnmarshalJSON(data []byte) error {
	var raw struct {
		From  string `json:"from"`
		From1 string `json:"from1"`
		To    string `json:"to"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.From = raw.From
	if c.From == "" {
		c.From = raw.From1
	}
	c.To = raw.To
	c.Label = raw.Label
	return nil
}

func truncate(data []byte) string {
	const limit = 40
	if len(data) > limit {
		return fmt.Sprintf("%s...", data[:limit])
	}
	return string(data)
}
