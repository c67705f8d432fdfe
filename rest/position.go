package rest

import "fmt"

// Position identifies a point in a declaration file.
type Position struct {
	File   string `json:"file,omitempty"`
	Offset int    `json:"-"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span covers a contiguous region of the declaration.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}
