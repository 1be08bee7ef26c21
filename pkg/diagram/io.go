package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/constellar/pkg/errors"
)

// Flowchart is the JSON document accepted by [ReadFlowchart]:
//
//	{
//	  "nodes": [
//	    {"id": "start", "type": "start", "label": "Start", "next": "check"},
//	    {"id": "check", "type": "decision", "label": "Valid?", "next": {"yes": "done", "no": "start"}},
//	    {"id": "done", "type": "end", "label": "Done"}
//	  ]
//	}
type Flowchart struct {
	Nodes []Node `json:"nodes"`
}

// Architecture is the JSON document accepted by [ReadArchitecture]:
//
//	{
//	  "components": [
//	    {"id": "web", "type": "client", "label": "Web App", "layer": 0},
//	    {"id": "db", "type": "database", "label": "PostgreSQL", "layer": 1}
//	  ],
//	  "connections": [{"from": "web", "to": "db", "label": "SQL"}]
//	}
type Architecture struct {
	Components  []Component  `json:"components"`
	Connections []Connection `json:"connections"`
}

// ReadFlowchart decodes a flowchart document from r. A "next" field of the
// wrong shape fails with MALFORMED_SUCCESSOR; other decoding failures are
// INVALID_INPUT. Branch maps keep their key order. ReadFlowchart does not
// close r.
func ReadFlowchart(r io.Reader) (*Flowchart, error) {
	var f Flowchart
	if err := decode(r, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ImportFlowchart reads a flowchart document from the file at path.
func ImportFlowchart(path string) (*Flowchart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ReadFlowchart(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ReadArchitecture decodes an architecture document from r. Connections
// may spell their source as "from1". ReadArchitecture does not close r.
func ReadArchitecture(r io.Reader) (*Architecture, error) {
	var a Architecture
	if err := decode(r, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ImportArchitecture reads an architecture document from the file at path.
func ImportArchitecture(path string) (*Architecture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a, err := ReadArchitecture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	return nil
}
