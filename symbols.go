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
	"bufio"
	"fmt"
	"go/ast"
	"go/types"
	"io"
	"os"
	"sort"
	"strings"
)

type set map[string]bool

// SymbolList holds the target symbols whose call sites are of interest.
// Symbols are either bare function names ("Parse") or package qualified
// ("expat.Parse"). Bare names are stored under the empty package key.
type SymbolList map[string]set

// NewSymbolList creates a new empty SymbolList
func NewSymbolList() SymbolList {
	return make(SymbolList)
}

// Add a target symbol to the list
func (s SymbolList) Add(pkg, fn string) {
	if _, ok := s[pkg]; !ok {
		s[pkg] = make(set)
	}
	s[pkg][fn] = true
}

// Contains returns true if the package and function are members of
// this symbol list.
func (s SymbolList) Contains(pkg, fn string) bool {
	if funcs, ok := s[pkg]; ok {
		return funcs[fn]
	}
	return false
}

// Count returns the total number of target symbols
func (s SymbolList) Count() int {
	n := 0
	for _, funcs := range s {
		n += len(funcs)
	}
	return n
}

// Names returns the qualified names of all target symbols in sorted order
func (s SymbolList) Names() []string {
	names := make([]string, 0, s.Count())
	for pkg, funcs := range s {
		for fn := range funcs {
			if pkg == "" {
				names = append(names, fn)
			} else {
				names = append(names, pkg+"."+fn)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ContainsCallExpr matches a call expression against the symbol list and
// returns the call together with the configured symbol name it matched.
// Only direct callee names are resolved; calls through function values,
// method expressions or similar indirections never match.
func (s SymbolList) ContainsCallExpr(n ast.Node, ctx *Context) (*ast.CallExpr, string) {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return nil, ""
	}
	switch fn := unparen(call.Fun).(type) {
	case *ast.Ident:
		// A bare identifier either names a function in the current
		// package or a variable holding one; both are matched by name
		// per the direct-resolution contract.
		if s.Contains("", fn.Name) {
			return call, fn.Name
		}
	case *ast.SelectorExpr:
		ident, ok := fn.X.(*ast.Ident)
		if !ok {
			return nil, ""
		}
		for _, pkg := range calleePackageNames(ident, ctx) {
			if s.Contains(pkg, fn.Sel.Name) {
				return call, pkg + "." + fn.Sel.Name
			}
		}
	}
	return nil, ""
}

// calleePackageNames returns the candidate package names for a qualified
// callee: the name as written in source and, when the identifier is an
// aliased package import, the canonical package name.
func calleePackageNames(ident *ast.Ident, ctx *Context) []string {
	names := []string{ident.Name}
	if ctx == nil {
		return names
	}
	if ctx.Info != nil {
		if pkgName, ok := ctx.Info.ObjectOf(ident).(*types.PkgName); ok {
			if canonical := pkgName.Imported().Name(); canonical != ident.Name {
				names = append(names, canonical)
			}
			return names
		}
	}
	if ctx.Imports != nil {
		if canonical, ok := ctx.Imports.ResolveAlias(ident.Name); ok && canonical != ident.Name {
			names = append(names, canonical)
		}
	}
	return names
}

// LoadSymbols reads target symbol names from r, one per line. Blank and
// whitespace-only lines are rejected rather than skipped so that a
// malformed names file is caught before any analysis starts.
func LoadSymbols(r io.Reader) (SymbolList, error) {
	symbols := NewSymbolList()
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("symbol file: blank line %d", lineno)
		}
		name := strings.TrimSpace(line)
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			symbols.Add(name[:idx], name[idx+1:])
		} else {
			symbols.Add("", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if symbols.Count() == 0 {
		return nil, fmt.Errorf("symbol file: no target symbols given")
	}
	return symbols, nil
}

// LoadSymbolsFile reads target symbol names from the file at path
func LoadSymbolsFile(path string) (SymbolList, error) {
	file, err := os.Open(path) // #nosec
	if err != nil {
		return nil, fmt.Errorf("symbol file: %w", err)
	}
	defer file.Close()
	return LoadSymbols(file)
}
