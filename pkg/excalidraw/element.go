package excalidraw

// Element types.
const (
	TypeRectangle = "rectangle"
	TypeEllipse   = "ellipse"
	TypeDiamond   = "diamond"
	TypeArrow     = "arrow"
	TypeLine      = "line"
	TypeText      = "text"
)

// Element is a single Excalidraw scene element. Linear and Text properties
// are only present on elements of the matching type.
type Element struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	X               float64        `json:"x"`
	Y               float64        `json:"y"`
	Width           float64        `json:"width"`
	Height          float64        `json:"height"`
	Angle           float64        `json:"angle"`
	StrokeColor     string         `json:"strokeColor"`
	BackgroundColor string         `json:"backgroundColor"`
	FillStyle       string         `json:"fillStyle"`
	StrokeWidth     float64        `json:"strokeWidth"`
	StrokeStyle     string         `json:"strokeStyle"`
	Roughness       int            `json:"roughness"`
	Opacity         int            `json:"opacity"`
	GroupIDs        []string       `json:"groupIds"`
	FrameID         *string        `json:"frameId"`
	Roundness       *Roundness     `json:"roundness"`
	Seed            int64          `json:"seed"`
	Version         int            `json:"version"`
	VersionNonce    int64          `json:"versionNonce"`
	IsDeleted       bool           `json:"isDeleted"`
	BoundElements   []BoundElement `json:"boundElements"`
	Updated         int64          `json:"updated"`
	Link            *string        `json:"link"`
	Locked          bool           `json:"locked"`

	*LinearProps
	*TextProps
}

// ElementID returns the element's identifier.
func (e *Element) ElementID() string { return e.ID }

// Roundness selects corner rounding. Type 3 is adaptive rounding.
type Roundness struct {
	Type int `json:"type"`
}

// BoundElement is a back-reference from a container to an element bound to
// it, such as its label.
type BoundElement struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Binding attaches an end of a linear element to another element.
type Binding struct {
	ElementID string  `json:"elementId"`
	Focus     float64 `json:"focus"`
	Gap       float64 `json:"gap"`
}

// LinearProps holds the properties of arrows and lines. Points are relative
// to the element's x and y.
type LinearProps struct {
	Points             [][2]float64 `json:"points"`
	LastCommittedPoint *[2]float64  `json:"lastCommittedPoint"`
	StartBinding       *Binding     `json:"startBinding"`
	EndBinding         *Binding     `json:"endBinding"`
	StartArrowhead     *string      `json:"startArrowhead"`
	EndArrowhead       *string      `json:"endArrowhead"`
}

// TextProps holds the properties of text elements.
type TextProps struct {
	Text          string  `json:"text"`
	FontSize      float64 `json:"fontSize"`
	FontFamily    int     `json:"fontFamily"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
	Baseline      float64 `json:"baseline"`
	ContainerID   *string `json:"containerId"`
	OriginalText  string  `json:"originalText"`
	LineHeight    float64 `json:"lineHeight"`
}

// bind records label as bound to e.
func (e *Element) bind(label *Element) {
	e.BoundElements = append(e.BoundElements, BoundElement{Type: TypeText, ID: label.ID})
}
