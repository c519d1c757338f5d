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
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
)

// CollectCalls runs the first pass over a single translation unit: it finds
// every call expression whose callee resolves to one of the target symbols
// and records the argument expressions in call order, classified by
// syntactic kind. Nested calls to target symbols are matched independently.
// An empty result is valid, not an error.
func CollectCalls(ctx *Context, symbols SymbolList) []*CallRecord {
	c := &collector{ctx: ctx, symbols: symbols}
	for _, decl := range ctx.Root.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Body != nil {
				c.walk(d.Body, d)
			}
		case *ast.GenDecl:
			// Package level initializers may also invoke a target
			// symbol; they have no enclosing function.
			c.walk(d, nil)
		}
	}
	return c.records
}

type collector struct {
	ctx     *Context
	symbols SymbolList
	records []*CallRecord
}

// walk visits every node below n, keeping track of the innermost enclosing
// function so the second pass knows where to search for reaching values.
func (c *collector) walk(n ast.Node, enclosing ast.Node) {
	ast.Inspect(n, func(node ast.Node) bool {
		switch expr := node.(type) {
		case *ast.FuncLit:
			if expr != enclosing {
				c.walk(expr.Body, expr)
				return false
			}
		case *ast.CallExpr:
			if call, symbol := c.symbols.ContainsCallExpr(expr, c.ctx); call != nil {
				c.records = append(c.records, c.newRecord(call, symbol, enclosing))
			}
		}
		return true
	})
}

func (c *collector) newRecord(call *ast.CallExpr, symbol string, enclosing ast.Node) *CallRecord {
	record := &CallRecord{
		Symbol:    symbol,
		Arity:     len(call.Args),
		Args:      make([]ArgumentState, 0, len(call.Args)),
		Location:  NewLocation(call, c.ctx.FileSet),
		call:      call,
		enclosing: enclosing,
	}
	for i, arg := range call.Args {
		record.Args = append(record.Args, c.classify(i, arg))
	}
	return record
}

// classify maps a single argument expression onto an ArgumentState. Only
// the outermost simple identifier is treated as a variable reference;
// field accesses, subscripts and any other expression shape degrade to
// NonDet so that aliased or indirect state is never reported with false
// precision.
func (c *collector) classify(index int, arg ast.Expr) ArgumentState {
	state := ArgumentState{
		Kind:       NonDet,
		ParamIndex: index,
		Location:   NewLocation(arg, c.ctx.FileSet),
	}
	switch expr := unparen(arg).(type) {
	case *ast.BasicLit:
		if kind, value, ok := literalValue(expr); ok {
			state.Kind = kind
			state.Value = value
		}
	case *ast.Ident:
		switch obj := c.object(expr).(type) {
		case *types.Const:
			// Named constants are already resolved by the type
			// checker; record them as the literal they denote
			// instead of deferring to the second pass.
			if kind, value, ok := constValue(c.ctx, expr); ok {
				state.Kind = kind
				state.Value = value
			}
		case *types.Var:
			state.Kind = VarReference
			state.Ident = expr.Name
			state.obj = obj
		case nil:
			// Without type information the identifier is still
			// worth chasing by name.
			state.Kind = VarReference
			state.Ident = expr.Name
		}
	}
	return state
}

func (c *collector) object(ident *ast.Ident) types.Object {
	if c.ctx.Info == nil {
		return nil
	}
	return c.ctx.Info.ObjectOf(ident)
}

// literalValue extracts the kind and normalized text of a basic literal.
// Integer literals keep their source spelling, character and string
// literals are unquoted. Float, imaginary and malformed literals are not
// part of the recorded state space.
func literalValue(lit *ast.BasicLit) (StateKind, string, bool) {
	switch lit.Kind {
	case token.INT:
		if _, err := GetInt(lit); err == nil {
			return IntLiteral, lit.Value, true
		}
	case token.CHAR:
		if value, err := GetChar(lit); err == nil {
			return CharLiteral, string(value), true
		}
	case token.STRING:
		if value, err := GetString(lit); err == nil {
			return StringLiteral, value, true
		}
	}
	return NonDet, "", false
}

// constValue resolves an identifier denoting a typed or untyped constant
func constValue(ctx *Context, expr ast.Expr) (StateKind, string, bool) {
	if ctx.Info == nil {
		return NonDet, "", false
	}
	tv, ok := ctx.Info.Types[expr]
	if !ok || tv.Value == nil {
		return NonDet, "", false
	}
	switch tv.Value.Kind() {
	case constant.Int:
		return IntLiteral, tv.Value.ExactString(), true
	case constant.String:
		return StringLiteral, constant.StringVal(tv.Value), true
	}
	return NonDet, "", false
}

// unparen strips any number of enclosing parentheses from an expression
func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
