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

// Package argstates enumerates the possible states for arguments passed to
// a set of target functions. The resulting catalogue records, per symbol
// and parameter position, every value the parameter was observed to be
// called with, so that a fuzzing harness can restrict parameters whose
// observed value set is finite.
package argstates

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode controls the amount of details to return when loading the packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedTypesSizes |
	packages.NeedTypesInfo |
	packages.NeedSyntax

// The Context is populated with data parsed from the source code as it is
// scanned. It holds non-owning references into the translation unit under
// analysis and is only valid while that unit is loaded.
type Context struct {
	FileSet  *token.FileSet
	Info     *types.Info
	Pkg      *types.Package
	PkgFiles []*ast.File
	Root     *ast.File
	Config   Config
	Imports  *ImportTracker
}

// Metrics used when reporting information about an analysis run
type Metrics struct {
	NumFiles  int `json:"files"`
	NumLines  int `json:"lines"`
	NumCalls  int `json:"calls"`
	NumNonDet int `json:"nondet"`
}

// Analyzer drives the two analysis passes over every translation unit and
// folds the results into the catalogue. Translation units are processed
// one at a time; the catalogue is the only state that persists between
// them.
type Analyzer struct {
	symbols   SymbolList
	context   *Context
	config    Config
	logger    *log.Logger
	catalogue *Catalogue
	errors    map[string][]Error
	stats     *Metrics
	cache     *LRUCache[resolveKey, []ArgumentState]
}

// NewAnalyzer builds a new analyzer for the given target symbols
func NewAnalyzer(conf Config, symbols SymbolList, logger *log.Logger) *Analyzer {
	if conf == nil {
		conf = NewConfig()
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[argstates] ", log.LstdFlags)
	}
	return &Analyzer{
		symbols:   symbols,
		context:   &Context{},
		config:    conf,
		logger:    logger,
		catalogue: NewCatalogue(),
		errors:    make(map[string][]Error),
		stats:     &Metrics{},
		cache:     NewLRUCache[resolveKey, []ArgumentState](1 << 12),
	}
}

// Process kicks off the analysis for the given package paths. Packages
// that fail to load contribute nothing beyond an error record; the run
// itself carries on.
func (a *Analyzer) Process(buildTags []string, packagePaths ...string) error {
	if a.symbols.Count() == 0 {
		return fmt.Errorf("no target symbols configured")
	}
	for _, packagePath := range packagePaths {
		// Loading relative to the target directory keeps the scan
		// independent of the module the process was started in.
		config := &packages.Config{
			Mode:       LoadMode,
			Dir:        packagePath,
			BuildFlags: buildTags,
			Tests:      false,
		}
		pkgs, err := packages.Load(config, ".")
		if err != nil {
			a.AppendError(packagePath, err)
			continue
		}
		for _, pkg := range pkgs {
			if err := a.ParseErrors(pkg); err != nil {
				return fmt.Errorf("parsing errors in pkg %q: %w", pkg.Name, err)
			}
			// A package that failed to load has no name; its errors
			// were recorded above.
			if pkg.Name != "" {
				a.CheckPackage(pkg)
			}
		}
	}
	return nil
}

// CheckPackage runs both analysis passes over every file of an already
// loaded package.
func (a *Analyzer) CheckPackage(pkg *packages.Package) {
	a.logger.Println("Checking package:", pkg.Name)
	for _, file := range pkg.Syntax {
		fp := pkg.Fset.File(file.Pos())
		if fp == nil {
			continue
		}
		a.logger.Println("Checking file:", fp.Name())
		a.context = &Context{
			FileSet:  pkg.Fset,
			Info:     pkg.TypesInfo,
			Pkg:      pkg.Types,
			PkgFiles: pkg.Syntax,
			Root:     file,
			Config:   a.config,
			Imports:  NewImportTracker(),
		}
		if pkg.Types != nil {
			a.context.Imports.TrackPackages(pkg.Types.Imports()...)
		}
		a.context.Imports.TrackFile(file)
		a.checkFile(fp)
	}
}

// checkFile analyzes one translation unit: pass one collects the call
// records, pass two resolves variable references, and the records are
// folded into the catalogue before the next unit is loaded.
func (a *Analyzer) checkFile(fp *token.File) {
	records := CollectCalls(a.context, a.symbols)

	r := &resolver{ctx: a.context, cache: a.cache}
	for _, record := range records {
		r.resolve(record)
		a.stats.NumCalls++
		for i := range record.Args {
			if record.Args[i].Kind == NonDet {
				a.stats.NumNonDet++
			}
		}
		if err := a.catalogue.Fold(record); err != nil {
			// Invariant violation in the collector; drop the call
			// site rather than corrupt the catalogue.
			a.logger.Printf("Skipping call site: %v", err)
		}
	}

	a.stats.NumFiles++
	a.stats.NumLines += fp.LineCount()
}

// ParseErrors parses the errors from given package
func (a *Analyzer) ParseErrors(pkg *packages.Package) error {
	if len(pkg.Errors) == 0 {
		return nil
	}
	for _, pkgErr := range pkg.Errors {
		parts := strings.Split(pkgErr.Pos, ":")
		file := parts[0]
		if file == "" {
			// List errors carry no position
			file = pkg.PkgPath
		}
		var err error
		var line int
		if len(parts) > 1 {
			if line, err = strconv.Atoi(parts[1]); err != nil {
				return fmt.Errorf("parsing line: %w", err)
			}
		}
		var column int
		if len(parts) > 2 {
			if column, err = strconv.Atoi(parts[2]); err != nil {
				return fmt.Errorf("parsing column: %w", err)
			}
		}
		msg := strings.TrimSpace(pkgErr.Msg)
		newErr := NewError(line, column, msg)
		if errSlice, ok := a.errors[file]; ok {
			a.errors[file] = append(errSlice, *newErr)
		} else {
			a.errors[file] = []Error{*newErr}
		}
	}
	return nil
}

// AppendError appends an error to the file errors
func (a *Analyzer) AppendError(file string, err error) {
	// Do not report the error for empty packages (e.g. files excluded by
	// build tags)
	if strings.Contains(err.Error(), "no buildable Go source files") {
		return
	}
	errors := make([]Error, 0)
	if errSlice, ok := a.errors[file]; ok {
		errors = errSlice
	}
	errors = append(errors, *NewError(0, 0, err.Error()))
	a.errors[file] = errors
}

// Report returns the catalogue built so far together with the per-file
// errors and the metrics about the run.
func (a *Analyzer) Report() (*Catalogue, map[string][]Error, *Metrics) {
	sortErrors(a.errors)
	return a.catalogue, a.errors, a.stats
}

// Reset clears state such as context, catalogue and metrics from the
// configured analyzer
func (a *Analyzer) Reset() {
	a.context = &Context{}
	a.catalogue = NewCatalogue()
	a.errors = make(map[string][]Error)
	a.stats = &Metrics{}
	a.cache = NewLRUCache[resolveKey, []ArgumentState](1 << 12)
}
