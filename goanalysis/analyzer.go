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

// Package goanalysis provides a standard golang.org/x/tools/go/analysis.Analyzer
// for argstates, so the scan can be registered with any driver that hosts
// go/analysis passes.
package goanalysis

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/Kafva/argstates"
)

const Doc = `argstates enumerates the possible states for arguments to calls of the target functions.`

// Analyzer is the standard go/analysis Analyzer for argstates.
var Analyzer = &analysis.Analyzer{
	Name: "argstates",
	Doc:  Doc,
	Run:  run,
}

var (
	flagSymbols     string
	flagSymbolsFile string
)

//nolint:gochecknoinits // Required for go/analysis Analyzer flag registration
func init() {
	Analyzer.Flags.StringVar(&flagSymbols, "symbols", "", "Comma-separated list of target symbols (e.g. Parse,expat.Parse)")
	Analyzer.Flags.StringVar(&flagSymbolsFile, "symbols-file", "", "Path to a file with one target symbol per line")
}

func run(pass *analysis.Pass) (any, error) {
	symbols, err := loadSymbols()
	if err != nil {
		return nil, err
	}

	for _, file := range pass.Files {
		ctx := makeContext(pass, file)
		records := argstates.CollectCalls(ctx, symbols)
		for _, record := range records {
			argstates.ResolveCallRecord(record, ctx)
			pass.Report(analysis.Diagnostic{
				Pos:      record.Call().Pos(),
				Category: "argstates",
				Message:  describe(record),
			})
		}
	}
	return nil, nil
}

func loadSymbols() (argstates.SymbolList, error) {
	if flagSymbolsFile != "" {
		return argstates.LoadSymbolsFile(flagSymbolsFile)
	}
	if flagSymbols == "" {
		return nil, fmt.Errorf("no target symbols given, use -symbols or -symbols-file")
	}
	return argstates.LoadSymbols(strings.NewReader(strings.ReplaceAll(flagSymbols, ",", "\n")))
}

func makeContext(pass *analysis.Pass, file *ast.File) *argstates.Context {
	ctx := &argstates.Context{
		FileSet:  pass.Fset,
		Info:     pass.TypesInfo,
		Pkg:      pass.Pkg,
		PkgFiles: pass.Files,
		Root:     file,
		Config:   argstates.NewConfig(),
		Imports:  argstates.NewImportTracker(),
	}
	ctx.Imports.TrackPackages(typesImports(pass.Pkg)...)
	ctx.Imports.TrackFile(file)
	return ctx
}

func typesImports(pkg *types.Package) []*types.Package {
	if pkg == nil {
		return nil
	}
	return pkg.Imports()
}

// describe renders one resolved call record as a single line diagnostic
func describe(record *argstates.CallRecord) string {
	parts := make([]string, 0, record.Arity)
	for i := 0; i < record.Arity; i++ {
		values := make([]string, 0, 2)
		exhaustive := true
		for _, arg := range record.Args {
			if arg.ParamIndex != i {
				continue
			}
			if arg.Kind == argstates.NonDet {
				exhaustive = false
				continue
			}
			values = append(values, fmt.Sprintf("%q", arg.Value))
		}
		slot := "{" + strings.Join(values, ", ") + "}"
		if !exhaustive {
			slot += "?"
		}
		parts = append(parts, fmt.Sprintf("param%d=%s", i, slot))
	}
	return fmt.Sprintf("call to %s: %s", record.Symbol, strings.Join(parts, " "))
}
