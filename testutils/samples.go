package testutils

// CodeSample encapsulates a snippet of source code that compiles, and how
// many target call sites it contains
type CodeSample struct {
	Code  []string
	Calls int
}

var (
	// SampleCodeLiterals contains calls with literal arguments only
	SampleCodeLiterals = []CodeSample{{[]string{`
package main

func process(mode int, name string) {}

func main() {
	process(0, "default")
	process(1, "strict")
}`}, 2}, {[]string{`
package main

func classify(c rune) rune { return c }

func main() {
	classify('a')
	classify('\n')
}`}, 2}}

	// SampleCodeSingleDef contains calls passing a variable with a single
	// reaching literal definition
	SampleCodeSingleDef = []CodeSample{{[]string{`
package main

func process(mode int) {}

func main() {
	mode := 2
	process(mode)
}`}, 1}, {[]string{`
package main

func process(name string) {}

func main() {
	var name = "fallback"
	process(name)
}`}, 1}}

	// SampleCodeBranches contains calls passing a variable assigned
	// different literals on different control-flow paths
	SampleCodeBranches = []CodeSample{{[]string{`
package main

import "os"

func process(mode int) {}

func main() {
	mode := 2
	if len(os.Args) > 1 {
		mode = 3
	}
	process(mode)
}`}, 1}, {[]string{`
package main

import "os"

func process(name string) {}

func main() {
	name := ""
	switch len(os.Args) {
	case 1:
		name = "one"
	case 2:
		name = "two"
	default:
		name = "many"
	}
	process(name)
}`}, 1}}

	// SampleCodeNonDet contains calls whose argument values cannot be
	// determined statically
	SampleCodeNonDet = []CodeSample{{[]string{`
package main

import "os"

func process(mode int) {}

func getValue() int { return len(os.Args) }

func main() {
	process(getValue())
}`}, 1}, {[]string{`
package main

func process(mode int) {}

func run(mode int) {
	process(mode)
}

func main() {
	run(1)
}`}, 1}, {[]string{`
package main

func process(mode int) {}

func main() {
	base := 1
	mode := base
	process(mode)
}`}, 1}}

	// SampleCodeMixed combines literal, resolvable and non-deterministic
	// call sites for the same symbol
	SampleCodeMixed = []CodeSample{{[]string{`
package main

import "os"

func process(mode int) {}

func main() {
	process(0)
	process(1)
	x := 2
	if len(os.Args) > 1 {
		x = 3
	}
	process(x)
}`}, 3}}

	// SampleCodeQualified contains calls to a package qualified symbol
	// through an aliased import
	SampleCodeQualified = []CodeSample{{[]string{`
package main

import (
	fmtalias "fmt"
)

func main() {
	fmtalias.Println("hello")
}`}, 1}}

	// SampleCodeNested contains a call to a target symbol nested inside
	// another call to a target symbol
	SampleCodeNested = []CodeSample{{[]string{`
package main

func wrap(mode int) int { return mode }

func main() {
	wrap(wrap(1))
}`}, 2}}
)
