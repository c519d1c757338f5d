package argstates_test

import (
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kafva/argstates"
	"github.com/Kafva/argstates/testutils"
)

var _ = Describe("Analyzer", func() {
	var (
		logger  *log.Logger
		symbols argstates.SymbolList
		pkg     *testutils.TestPackage
	)

	BeforeEach(func() {
		logger, _ = testutils.NewLogger()
		symbols = argstates.NewSymbolList()
		pkg = testutils.NewTestPackage()
		Expect(pkg).ShouldNot(BeNil())
	})

	AfterEach(func() {
		pkg.Close()
	})

	Context("when processing a package", func() {
		It("should return an error if no target symbols are configured", func() {
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			err := analyzer.Process(nil, "some/path")
			Expect(err).Should(HaveOccurred())
		})

		It("should report an error when the code fails to build", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			pkg.AddFile("wonky.go", `package main
func main() {`)
			// The load errors resurface during Process
			_ = pkg.Build()

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())
			_, errors, _ := analyzer.Report()
			Expect(errors).ShouldNot(BeEmpty())
		})

		It("should surface load failures for a directory without Go files", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			dir, err := os.MkdirTemp("", "argstates_empty")
			Expect(err).ShouldNot(HaveOccurred())
			defer os.RemoveAll(dir)
			goMod := filepath.Join(dir, "go.mod")
			Expect(os.WriteFile(goMod, []byte("module empty\n\ngo 1.22\n"), 0o644)).Should(Succeed())

			err = analyzer.Process(nil, dir)
			Expect(err).ShouldNot(HaveOccurred())

			catalogue, errors, _ := analyzer.Report()
			Expect(catalogue.Len()).Should(Equal(0))
			Expect(errors).ShouldNot(BeEmpty())
		})

		It("should catalogue literal and resolved values for the same symbol", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			sample := testutils.SampleCodeMixed[0]
			pkg.AddFile("mixed.go", sample.Code[0])
			Expect(pkg.Build()).Should(Succeed())

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())

			catalogue, _, metrics := analyzer.Report()
			Expect(metrics.NumCalls).Should(Equal(sample.Calls))
			Expect(metrics.NumNonDet).Should(Equal(0))

			entries := catalogue.Entries()
			Expect(entries).Should(HaveLen(1))
			Expect(entries[0].Symbol).Should(Equal("process"))
			Expect(entries[0].Params).Should(HaveLen(1))
			Expect(entries[0].Params[0].Exhaustive).Should(BeTrue())
			Expect(entries[0].Params[0].Values).Should(Equal([]string{"0", "1", "2", "3"}))
		})

		It("should mark a parameter open when any call site is non-deterministic", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			sample := testutils.SampleCodeNonDet[0]
			pkg.AddFile("nondet.go", sample.Code[0])
			Expect(pkg.Build()).Should(Succeed())

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())

			catalogue, _, metrics := analyzer.Report()
			Expect(metrics.NumNonDet).Should(BeNumerically(">=", 1))

			entries := catalogue.Entries()
			Expect(entries).Should(HaveLen(1))
			Expect(entries[0].Params[0].Exhaustive).Should(BeFalse())
			Expect(entries[0].Params[0].Values).Should(BeEmpty())
		})

		It("should accumulate values across files of the same package", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			pkg.AddFile("main.go", `
package main

func main() {
	process(1)
}`)
			pkg.AddFile("process.go", `
package main

func process(mode int) {
	process(2)
}`)
			Expect(pkg.Build()).Should(Succeed())

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())

			catalogue, _, metrics := analyzer.Report()
			Expect(metrics.NumFiles).Should(Equal(2))
			Expect(metrics.NumCalls).Should(Equal(2))

			entries := catalogue.Entries()
			Expect(entries).Should(HaveLen(1))
			Expect(entries[0].Params[0].Values).Should(Equal([]string{"1", "2"}))
		})

		It("should track file and line metrics", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			sample := testutils.SampleCodeLiterals[0]
			pkg.AddFile("literals.go", sample.Code[0])
			Expect(pkg.Build()).Should(Succeed())

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())

			_, _, metrics := analyzer.Report()
			Expect(metrics.NumFiles).Should(Equal(1))
			Expect(metrics.NumLines).Should(BeNumerically(">", 0))
			Expect(metrics.NumCalls).Should(Equal(sample.Calls))
		})
	})

	Context("when resetting the analyzer", func() {
		It("should forget the catalogue and metrics of the previous run", func() {
			symbols.Add("", "process")
			analyzer := argstates.NewAnalyzer(nil, symbols, logger)
			sample := testutils.SampleCodeLiterals[0]
			pkg.AddFile("literals.go", sample.Code[0])
			Expect(pkg.Build()).Should(Succeed())

			err := analyzer.Process(nil, pkg.Path)
			Expect(err).ShouldNot(HaveOccurred())
			catalogue, _, _ := analyzer.Report()
			Expect(catalogue.Len()).Should(Equal(1))

			analyzer.Reset()
			catalogue, errors, metrics := analyzer.Report()
			Expect(catalogue.Len()).Should(Equal(0))
			Expect(errors).Should(BeEmpty())
			Expect(metrics.NumFiles).Should(Equal(0))
		})
	})
})
