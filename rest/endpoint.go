package rest

// Visibility of a generated endpoint group.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisPublic
)

func (v Visibility) String() string {
	if v == VisPublic {
		return "pub"
	}
	return ""
}

// Verbs is the closed set of recognized HTTP methods. Initialized once,
// never mutated.
var Verbs = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"OPTIONS": true,
	"HEAD":    true,
}

// EndpointGroup is one bracketed group in a declaration: a named set of
// endpoint methods sharing type-level attributes. Immutable after parse.
type EndpointGroup struct {
	Attrs   []RecordAttr      `json:"attrs,omitempty"`
	Vis     Visibility        `json:"vis"`
	Name    string            `json:"name"`
	NamePos Position          `json:"-"`
	Methods []*EndpointMethod `json:"methods"`
}

// EndpointMethod pairs an HTTP verb and URI template with the data types
// exchanged on that call.
type EndpointMethod struct {
	Verb    string     `json:"verb"`
	VerbPos Position   `json:"-"`
	URI     string     `json:"uri"`
	Types   []DataType `json:"types"`
}
