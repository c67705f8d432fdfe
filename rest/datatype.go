package rest

// Role selects the serialization direction and emission template of a
// record. A record with no explicit role must itself be named after one.
type Role int

const (
	RoleNone Role = iota
	RoleHeader
	RoleRequest
	RoleResponse
	RoleReqRes
	RoleQuery
)

var roleNames = map[Role]string{
	RoleHeader:   "Header",
	RoleRequest:  "Request",
	RoleResponse: "Response",
	RoleReqRes:   "ReqRes",
	RoleQuery:    "Query",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "None"
}

// rolesByName is the closed role vocabulary. Initialized once, never mutated.
var rolesByName = map[string]Role{
	"Header":   RoleHeader,
	"Request":  RoleRequest,
	"Response": RoleResponse,
	"ReqRes":   RoleReqRes,
	"Query":    RoleQuery,
}

// RoleFromName resolves an identifier against the role vocabulary.
func RoleFromName(name string) (Role, bool) {
	r, ok := rolesByName[name]
	return r, ok
}

// Direction reports whether the role serializes outgoing data, deserializes
// incoming data, or both.
func (r Role) Serializes() bool {
	switch r {
	case RoleHeader, RoleRequest, RoleReqRes, RoleQuery:
		return true
	}
	return false
}

func (r Role) Deserializes() bool {
	switch r {
	case RoleResponse, RoleReqRes:
		return true
	}
	return false
}

// DataType is the closed union of the two shapes a method can declare.
// The only implementations are *Record and *VariantSet.
type DataType interface {
	dataType()
	TypeName() string
}

// Record is a named group of typed fields, generated as a struct.
type Record struct {
	Attrs   []RecordAttr `json:"attrs,omitempty"`
	Name    string       `json:"name"`
	NamePos Position     `json:"-"`
	Role    Role         `json:"role"`
	Fields  []*Field     `json:"fields"`
}

func (*Record) dataType()          {}
func (r *Record) TypeName() string { return r.Name }

// VariantSet is a closed set of named alternatives, generated as a tagged
// union.
type VariantSet struct {
	Attrs    []RecordAttr `json:"attrs,omitempty"`
	Name     string       `json:"name"`
	NamePos  Position     `json:"-"`
	Variants []*Variant   `json:"variants"`
}

func (*VariantSet) dataType()          {}
func (v *VariantSet) TypeName() string { return v.Name }

// Field is one typed member of a record or struct-shaped variant. Type is an
// opaque symbol naming a target type; the core does not interpret it.
type Field struct {
	Attrs    []FieldAttr `json:"attrs,omitempty"`
	Name     string      `json:"name"`
	NamePos  Position    `json:"-"`
	Type     string      `json:"type"`
	Optional bool        `json:"optional"`
}

// PayloadKind is the shape of a variant's payload.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadTuple
	PayloadStruct
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadTuple:
		return "tuple"
	case PayloadStruct:
		return "struct"
	}
	return "none"
}

// Variant is one alternative of a variant set: bare, a single typed payload,
// or a field group.
type Variant struct {
	Attrs   []FieldAttr `json:"attrs,omitempty"`
	Name    string      `json:"name"`
	NamePos Position    `json:"-"`
	Payload PayloadKind `json:"payload"`

	// Tuple payload only.
	TupleType     string `json:"tupleType,omitempty"`
	TupleOptional bool   `json:"tupleOptional,omitempty"`

	// Struct payload only.
	Fields []*Field `json:"fields,omitempty"`
}
