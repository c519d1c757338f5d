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
	"go/token"
	"go/types"
	"sort"
)

// ResolveCallRecord runs the second pass on a single call record: every
// VarReference argument state is expanded into the set of literal values
// the variable can hold immediately before the call, or a NonDet state
// when the value space cannot be determined.
//
// The analysis is an intraprocedural backward reaching-values scan over
// the enclosing function: every assignment or initialization of the
// variable that is statically visible before the call contributes one
// value, not just the nearest one. Only single-level literal propagation
// is performed; an assignment from another variable, a call or any other
// non-literal expression contributes NonDet. Resolution never fails, the
// degraded answer is itself meaningful output.
func ResolveCallRecord(record *CallRecord, ctx *Context) {
	r := &resolver{ctx: ctx}
	r.resolve(record)
}

type resolver struct {
	ctx   *Context
	cache *LRUCache[resolveKey, []ArgumentState]
}

// resolveKey identifies one variable resolution within one translation
// unit. Cache hits are common when a variable is passed to several target
// calls in the same function.
type resolveKey struct {
	file  string
	ident string
	call  token.Pos
}

func (r *resolver) resolve(record *CallRecord) {
	if !record.Unresolved() {
		return
	}
	resolved := make([]ArgumentState, 0, len(record.Args))
	for _, arg := range record.Args {
		if arg.Kind != VarReference {
			resolved = append(resolved, arg)
			continue
		}
		resolved = append(resolved, r.reachingValues(record, arg)...)
	}
	record.Args = resolved
}

// reachingValues enumerates the values that can reach the referenced
// variable at the call site. The scan runs from the call position backward
// to the top of the enclosing function; branches that precede the call all
// contribute, yielding a set rather than a single answer.
func (r *resolver) reachingValues(record *CallRecord, arg ArgumentState) []ArgumentState {
	key := resolveKey{file: arg.Location.File, ident: arg.Ident, call: record.call.Pos()}
	if r.cache != nil {
		if states, ok := r.cache.Get(key); ok {
			return states
		}
	}

	states := r.scan(record, arg)
	if r.cache != nil {
		r.cache.Add(key, states)
	}
	return states
}

func (r *resolver) scan(record *CallRecord, arg ArgumentState) []ArgumentState {
	body := enclosingBody(record.enclosing)
	if body == nil {
		// Calls in package level initializers reference globals whose
		// state space is not locally determinable.
		return []ArgumentState{nondet(arg)}
	}

	w := &defWalker{
		resolver: r,
		ident:    arg.Ident,
		obj:      arg.obj,
		before:   record.call.Pos(),
		values:   make(map[string]StateKind),
	}
	w.walk(body)

	if len(w.values) == 0 {
		// No local initializer found: the variable is a parameter or
		// is only written through means the analysis does not chase.
		return []ArgumentState{nondet(arg)}
	}

	texts := make([]string, 0, len(w.values))
	for value := range w.values {
		texts = append(texts, value)
	}
	sort.Strings(texts)

	states := make([]ArgumentState, 0, len(texts)+1)
	for _, value := range texts {
		states = append(states, ArgumentState{
			Kind:       w.values[value],
			Value:      value,
			ParamIndex: arg.ParamIndex,
			Ident:      arg.Ident,
			Location:   arg.Location,
		})
	}
	if w.nondet {
		states = append(states, nondet(arg))
	}
	return states
}

func nondet(arg ArgumentState) ArgumentState {
	return ArgumentState{
		Kind:       NonDet,
		ParamIndex: arg.ParamIndex,
		Ident:      arg.Ident,
		Location:   arg.Location,
	}
}

// defWalker visits the statements of the enclosing function that lie
// before the call site and records every write to the variable of
// interest.
type defWalker struct {
	*resolver
	ident  string
	obj    types.Object
	before token.Pos
	values map[string]StateKind
	nondet bool
}

func (w *defWalker) walk(body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		if n == nil || n.Pos() >= w.before {
			// Statements past the call site cannot reach it
			return false
		}
		switch node := n.(type) {
		case *ast.FuncLit:
			if node.Pos() <= w.before && w.before < node.End() {
				// The call site lives inside this closure
				return true
			}
			// A closure defined before the call may write the
			// captured variable when invoked; its effect is not
			// statically determinable.
			if w.writesVariable(node.Body, token.NoPos) {
				w.nondet = true
			}
			return false
		case *ast.ForStmt:
			// Writes anywhere in an enclosing loop reach the call on
			// the next iteration, including those lexically after it.
			if node.Pos() <= w.before && w.before < node.End() {
				if w.writesVariable(node.Body, w.before) ||
					(node.Post != nil && w.writesVariableIn(node.Post, w.before)) {
					w.nondet = true
				}
			}
		case *ast.AssignStmt:
			w.visitAssign(node)
		case *ast.DeclStmt:
			w.visitDecl(node)
		case *ast.IncDecStmt:
			if w.matches(node.X) {
				w.nondet = true
			}
		case *ast.UnaryExpr:
			// Taking the address of the variable opens the door to
			// indirect writes the analysis does not track.
			if node.Op == token.AND && w.matches(node.X) {
				w.nondet = true
			}
		case *ast.RangeStmt:
			if w.matches(node.Key) || w.matches(node.Value) {
				w.nondet = true
			}
			if node.Pos() <= w.before && w.before < node.End() {
				if w.writesVariable(node.Body, w.before) {
					w.nondet = true
				}
			}
		}
		return true
	})
}

// writesVariable reports whether body contains a write to the variable of
// interest at or past the after position. token.NoPos matches any write.
func (w *defWalker) writesVariable(body *ast.BlockStmt, after token.Pos) bool {
	return w.writesVariableIn(body, after)
}

func (w *defWalker) writesVariableIn(n ast.Node, after token.Pos) bool {
	found := false
	ast.Inspect(n, func(node ast.Node) bool {
		if found || node == nil {
			return false
		}
		if node.End() <= after {
			// The subtree lies entirely before the call site and was
			// covered by the main walk
			return false
		}
		switch stmt := node.(type) {
		case *ast.AssignStmt:
			if node.Pos() >= after && w.anyMatches(stmt.Lhs) {
				found = true
			}
		case *ast.IncDecStmt:
			if node.Pos() >= after && w.matches(stmt.X) {
				found = true
			}
		case *ast.UnaryExpr:
			if node.Pos() >= after && stmt.Op == token.AND && w.matches(stmt.X) {
				found = true
			}
		case *ast.RangeStmt:
			if node.Pos() >= after && (w.matches(stmt.Key) || w.matches(stmt.Value)) {
				found = true
			}
		}
		return !found
	})
	return found
}

func (w *defWalker) visitAssign(assign *ast.AssignStmt) {
	switch assign.Tok {
	case token.ASSIGN, token.DEFINE:
	default:
		// Compound assignment derives the new value from the old one
		if w.anyMatches(assign.Lhs) {
			w.nondet = true
		}
		return
	}
	for i, lhs := range assign.Lhs {
		if !w.matches(lhs) {
			continue
		}
		if len(assign.Rhs) != len(assign.Lhs) {
			// Tuple assignment from a call or comma-ok expression
			w.nondet = true
			continue
		}
		w.record(assign.Rhs[i])
	}
}

func (w *defWalker) visitDecl(decl *ast.DeclStmt) {
	gen, ok := decl.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return
	}
	for _, spec := range gen.Specs {
		value, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for i, name := range value.Names {
			if !w.matches(name) {
				continue
			}
			// A declaration without initializer contributes no
			// reaching literal; a later assignment or the nondet
			// fallback covers it.
			if i < len(value.Values) {
				w.record(value.Values[i])
			}
		}
	}
}

// record classifies a right-hand side: literals enter the value set,
// anything else makes the set non-exhaustive. Assignments from other
// variables are deliberately not chased.
func (w *defWalker) record(rhs ast.Expr) {
	if lit, ok := unparen(rhs).(*ast.BasicLit); ok {
		if kind, value, ok := literalValue(lit); ok {
			w.values[value] = kind
			return
		}
	}
	w.nondet = true
}

func (w *defWalker) matches(expr ast.Expr) bool {
	ident, ok := unparen(expr).(*ast.Ident)
	if !ok || ident.Name != w.ident {
		return false
	}
	if w.obj != nil && w.ctx != nil && w.ctx.Info != nil {
		return w.ctx.Info.ObjectOf(ident) == w.obj
	}
	return true
}

func (w *defWalker) anyMatches(exprs []ast.Expr) bool {
	for _, expr := range exprs {
		if w.matches(expr) {
			return true
		}
	}
	return false
}

func enclosingBody(n ast.Node) *ast.BlockStmt {
	switch fn := n.(type) {
	case *ast.FuncDecl:
		return fn.Body
	case *ast.FuncLit:
		return fn.Body
	}
	return nil
}
