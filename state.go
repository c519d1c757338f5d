// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package argstates

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
)

// StateKind classifies the syntactic shape of an observed call argument.
type StateKind int

const (
	// IntLiteral is an integer literal argument
	IntLiteral StateKind = iota

	// CharLiteral is a character (rune) literal argument
	CharLiteral

	// StringLiteral is a string literal argument
	StringLiteral

	// VarReference is a reference to a declared variable by its simple name.
	// Resolution of the values the variable can hold happens in the second
	// pass; until then the state carries no value.
	VarReference

	// NonDet marks an argument whose value cannot be determined statically
	NonDet
)

// String converts a StateKind into a string
func (k StateKind) String() string {
	switch k {
	case IntLiteral:
		return "int"
	case CharLiteral:
		return "char"
	case StringLiteral:
		return "string"
	case VarReference:
		return "ref"
	case NonDet:
		return "nondet"
	}
	return "unknown"
}

// Location points out the file, line and column an argument state was
// observed at. It is used for diagnostics and to keep output deterministic.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"column"`
}

// NewLocation derives a Location from an AST node using the file set of the
// current translation unit.
func NewLocation(n ast.Node, fset *token.FileSet) Location {
	pos := fset.Position(n.Pos())
	return Location{
		File: pos.Filename,
		Line: pos.Line,
		Col:  pos.Column,
	}
}

// String converts a Location into a string
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// ArgumentState is one observed value, or value source, for one argument
// position of one call to a target symbol. Literal kinds carry the literal
// text in Value. VarReference states carry the referenced identifier name
// and an empty Value until the resolver replaces them. NonDet states carry
// neither.
type ArgumentState struct {
	Kind       StateKind
	Value      string
	ParamIndex int
	Ident      string
	Location   Location

	// Declaration object of the referenced variable, only set for
	// VarReference states and only valid while the translation unit
	// is loaded.
	obj types.Object
}

// CallRecord is the intermediate result for a single matched call site.
// It is produced by the first pass, consumed by the second pass which
// expands VarReference states into their reaching values, and finally
// folded into the catalogue and discarded.
//
// The AST references held here are owned by the translation unit and must
// not outlive it.
type CallRecord struct {
	// Symbol is the target symbol name as it was configured, e.g. "Parse"
	// or "expat.Parse".
	Symbol string

	// Arity is the number of arguments at the call site. After the first
	// pass Args holds exactly one state per argument with contiguous
	// ParamIndex values; the second pass may expand a VarReference into
	// several states sharing the same ParamIndex.
	Arity int

	Args []ArgumentState

	Location Location

	call      *ast.CallExpr
	enclosing ast.Node // *ast.FuncDecl or *ast.FuncLit, nil at package level
}

// Call returns the matched call expression. Only valid while the
// translation unit is loaded.
func (r *CallRecord) Call() *ast.CallExpr {
	return r.call
}

// Unresolved reports whether the record still contains VarReference states
// that the second pass needs to resolve.
func (r *CallRecord) Unresolved() bool {
	for i := range r.Args {
		if r.Args[i].Kind == VarReference {
			return true
		}
	}
	return false
}
