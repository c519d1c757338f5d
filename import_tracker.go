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
	"go/types"
	"strings"
)

// ImportTracker tracks the imports of the translation unit under analysis
// so that package-qualified target symbols match calls written through an
// import alias.
type ImportTracker struct {
	// Imported maps import paths to the canonical package name
	Imported map[string]string
	// Aliased maps the alias used in source to the import path
	Aliased map[string]string
	// InitOnly contains underscore imports
	InitOnly map[string]bool
}

// NewImportTracker creates an empty ImportTracker
func NewImportTracker() *ImportTracker {
	return &ImportTracker{
		Imported: make(map[string]string),
		Aliased:  make(map[string]string),
		InitOnly: make(map[string]bool),
	}
}

// TrackPackages records the canonical names of the supplied packages
func (t *ImportTracker) TrackPackages(pkgs ...*types.Package) {
	for _, pkg := range pkgs {
		t.Imported[pkg.Path()] = pkg.Name()
	}
}

// TrackFile records the imports declared by a single file
func (t *ImportTracker) TrackFile(file *ast.File) {
	for _, imp := range file.Imports {
		t.TrackImport(imp)
	}
}

// TrackImport records a single import spec
func (t *ImportTracker) TrackImport(n ast.Node) {
	imported, ok := n.(*ast.ImportSpec)
	if !ok {
		return
	}
	path := strings.Trim(imported.Path.Value, `"`)
	if imported.Name != nil {
		if imported.Name.Name == "_" {
			// Initialization only import
			t.InitOnly[path] = true
			return
		}
		t.Aliased[imported.Name.Name] = path
	}
	if _, ok := t.Imported[path]; !ok {
		// Fall back on the last path segment when the loader did not
		// supply the canonical package name.
		t.Imported[path] = path[strings.LastIndex(path, "/")+1:]
	}
}

// ResolveAlias maps an import alias as written in source back to the
// canonical package name.
func (t *ImportTracker) ResolveAlias(alias string) (string, bool) {
	path, ok := t.Aliased[alias]
	if !ok {
		return "", false
	}
	name, ok := t.Imported[path]
	return name, ok
}
