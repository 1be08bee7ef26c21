package diagram

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/constellar/pkg/errors"
)

func TestNextUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Next
		targets []string
	}{
		{"null", `null`, Next{}, nil},
		{"plain", `"b"`, To("b"), []string{"b"}},
		{"empty string", `""`, Next{}, nil},
		{"branches keep order", `{"no": "x", "yes": "y", "maybe": "z"}`, Branches("no", "x", "yes", "y", "maybe", "z"), []string{"x", "y", "z"}},
		{"empty branch map", `{}`, Next{Branches: []Branch{}}, []string{}},
		{"empty branch target", `{"yes": ""}`, Branches("yes", ""), []string{""}},
		{"repeated key keeps first position", `{"yes": "a", "no": "b", "yes": "c"}`, Branches("yes", "c", "no", "b"), []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Next
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
			if targets := got.Targets(); !reflect.DeepEqual(targets, tt.targets) {
				t.Errorf("Targets() = %v, want %v", targets, tt.targets)
			}
		})
	}
}

func TestNextUnmarshalMalformed(t *testing.T) {
	for _, input := range []string{`42`, `true`, `["a", "b"]`, `{"yes": 1}`, `{"yes": {"deep": "x"}}`} {
		t.Run(input, func(t *testing.T) {
			var n Node
			err := json.Unmarshal([]byte(`{"id": "a", "next": `+input+`}`), &n)
			if !errors.Is(err, errors.ErrCodeMalformedSuccessor) {
				t.Errorf("Unmarshal(next=%s) error = %v, want MALFORMED_SUCCESSOR", input, err)
			}
		})
	}
}

func TestNextMarshal(t *testing.T) {
	tests := []struct {
		next Next
		want string
	}{
		{Next{}, `null`},
		{To("b"), `"b"`},
		{Branches("no", "x", "yes", "y"), `{"no":"x","yes":"y"}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.next)
		if err != nil {
			t.Fatalf("Marshal(%+v) error: %v", tt.next, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%+v) = %s, want %s", tt.next, got, tt.want)
		}
	}
}

func TestNodeMarshalOmitsEmptyNext(t *testing.T) {
	got, err := json.Marshal(Node{ID: "a", Kind: KindEnd})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := `{"id":"a","type":"end"}`; string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestConnectionFromAlias(t *testing.T) {
	tests := []struct {
		input string
		want  Connection
	}{
		{`{"from": "a", "to": "b", "label": "SQL"}`, Connection{From: "a", To: "b", Label: "SQL"}},
		{`{"from1": "a", "to": "b"}`, Connection{From: "a", To: "b"}},
		{`{"from": "a", "from1": "z", "to": "b"}`, Connection{From: "a", To: "b"}},
	}
	for _, tt := range tests {
		var got Connection
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestComponentRow(t *testing.T) {
	if r := (Component{ID: "a"}).Row(); r != 0 {
		t.Errorf("Row() without layer = %d, want 0", r)
	}
	if r := (Component{ID: "a", Layer: intp(3)}).Row(); r != 3 {
		t.Errorf("Row() = %d, want 3", r)
	}
}

func TestComponentLayerDecoding(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{`{"id": "a"}`, nil},
		{`{"id": "a", "layer": null}`, nil},
		{`{"id": "a", "layer": 2}`, intp(2)},
		{`{"id": "a", "layer": 1.0}`, intp(1)},
		{`{"id": "a", "layer": 0.0, "description": "ignored"}`, intp(0)},
	}
	for _, tt := range tests {
		var got Component
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
		}
		if !reflect.DeepEqual(got.Layer, tt.want) {
			t.Errorf("Unmarshal(%s).Layer = %v, want %v", tt.input, got.Layer, tt.want)
		}
	}

	for _, input := range []string{`{"id": "a", "layer": 1.5}`, `{"id": "a", "layer": 1e12}`} {
		var c Component
		if err := json.Unmarshal([]byte(input), &c); !errors.Is(err, errors.ErrCodeInvalidLayer) {
			t.Errorf("Unmarshal(%s) error = %v, want INVALID_LAYER", input, err)
		}
	}
	var c Component
	if err := json.Unmarshal([]byte(`{"id": "a", "layer": "1"}`), &c); err == nil {
		t.Error("string layer should not decode")
	}
}
