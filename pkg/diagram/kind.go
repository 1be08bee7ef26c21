package diagram

// Kind is the type tag of a flowchart node or architecture component.
type Kind string

// Flowchart node kinds.
const (
	KindStart    Kind = "start"
	KindEnd      Kind = "end"
	KindProcess  Kind = "process"
	KindDecision Kind = "decision"
)

// Architecture component kinds.
const (
	KindClient   Kind = "client"
	KindServer   Kind = "server"
	KindDatabase Kind = "database"
	KindAPI      Kind = "api"
	KindCache    Kind = "cache"
	KindQueue    Kind = "queue"
	KindStorage  Kind = "storage"
	KindService  Kind = "service"
)

// FlowKinds lists the kinds understood by flowcharts.
var FlowKinds = []Kind{KindStart, KindEnd, KindProcess, KindDecision}

// ComponentKinds lists the kinds understood by architecture diagrams.
var ComponentKinds = []Kind{
	KindClient, KindServer, KindDatabase, KindAPI,
	KindCache, KindQueue, KindStorage, KindService,
}

// FlowKind normalizes k for flowcharts. Anything that is not a flowchart
// kind is drawn as a process step.
func FlowKind(k Kind) Kind {
	switch k {
	case KindStart, KindEnd, KindDecision:
		return k
	default:
		return KindProcess
	}
}

// ComponentKind normalizes k for architecture diagrams. Unknown and empty
// kinds become services.
func ComponentKind(k Kind) Kind {
	switch k {
	case KindClient, KindServer, KindDatabase, KindAPI,
		KindCache, KindQueue, KindStorage, KindService:
		return k
	default:
		return KindService
	}
}

// ShapeKind names a closed shape a factory knows how to draw.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeDiamond   ShapeKind = "diamond"
)

// Appearance is the fixed visual treatment of a kind.
type Appearance struct {
	Shape      ShapeKind
	Stroke     string
	Background string
	Icon       string // Prefix for architecture labels; empty for flowchart kinds
}

// Default palette colors.
const (
	ColorViolet      = "#8b5cf6"
	ColorViolet400   = "#a78bfa"
	ColorViolet300   = "#c4b5fd"
	ColorViolet200   = "#ddd6fe"
	ColorSlate       = "#64748b"
	ColorText        = "#e9ecef"
	ColorTransparent = "transparent"
)

var appearances = map[Kind]Appearance{
	KindStart:    {Shape: ShapeEllipse, Stroke: ColorViolet, Background: ColorViolet400},
	KindEnd:      {Shape: ShapeEllipse, Stroke: ColorViolet, Background: ColorViolet},
	KindDecision: {Shape: ShapeDiamond, Stroke: ColorViolet, Background: ColorViolet300},
	KindProcess:  {Shape: ShapeRectangle, Stroke: ColorViolet, Background: ColorViolet200},

	KindClient:   {Shape: ShapeRectangle, Stroke: "#60a5fa", Background: "#dbeafe", Icon: "👤"},
	KindServer:   {Shape: ShapeRectangle, Stroke: "#8b5cf6", Background: "#ede9fe", Icon: "🖥️"},
	KindDatabase: {Shape: ShapeEllipse, Stroke: "#10b981", Background: "#d1fae5", Icon: "💾"},
	KindAPI:      {Shape: ShapeRectangle, Stroke: "#f59e0b", Background: "#fef3c7", Icon: "🔌"},
	KindCache:    {Shape: ShapeRectangle, Stroke: "#ef4444", Background: "#fee2e2", Icon: "⚡"},
	KindQueue:    {Shape: ShapeRectangle, Stroke: "#ec4899", Background: "#fce7f3", Icon: "📬"},
	KindStorage:  {Shape: ShapeRectangle, Stroke: "#14b8a6", Background: "#ccfbf1", Icon: "📦"},
	KindService:  {Shape: ShapeRectangle, Stroke: "#6366f1", Background: "#e0e7ff", Icon: "⚙️"},
}

// AppearanceOf returns the visual treatment of k. The mapping is total:
// kinds without an entry are drawn as process steps.
func AppearanceOf(k Kind) Appearance {
	if a, ok := appearances[k]; ok {
		return a
	}
	return appearances[KindProcess]
}
