package excalidraw

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/constellar/pkg/diagram"
)

// DefaultBackground is the canvas color of exported scenes.
const DefaultBackground = "#0f0f23"

// Scene is an .excalidraw document.
type Scene struct {
	Type     string          `json:"type"`
	Version  int             `json:"version"`
	Source   string          `json:"source"`
	Elements json.RawMessage `json:"elements"`
	AppState AppState        `json:"appState"`
	Files    map[string]any  `json:"files"`
}

// AppState holds the editor state saved with a scene.
type AppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	GridSize            *int   `json:"gridSize"`
}

// NewScene wraps an encoded element array in a scene with the default dark
// background.
func NewScene(elements json.RawMessage) *Scene {
	if len(elements) == 0 {
		elements = json.RawMessage("[]")
	}
	return &Scene{
		Type:     "excalidraw",
		Version:  2,
		Source:   "constellar",
		Elements: elements,
		AppState: AppState{ViewBackgroundColor: DefaultBackground},
		Files:    map[string]any{},
	}
}

// SceneOf encodes elements and wraps them in a scene.
func SceneOf(elements []diagram.Element) (*Scene, error) {
	if elements == nil {
		elements = []diagram.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return NewScene(data), nil
}

// Write encodes s as indented JSON.
func (s *Scene) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Export writes s to the file at path.
func (s *Scene) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
