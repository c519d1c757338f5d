package argstates_test

import (
	"go/ast"
	"go/token"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kafva/argstates"
)

var _ = Describe("Helpers", func() {
	Context("when reading basic literals", func() {
		It("should read an integer literal", func() {
			value, err := argstates.GetInt(&ast.BasicLit{Kind: token.INT, Value: "41"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal(int64(41)))
		})

		It("should read a character literal", func() {
			value, err := argstates.GetChar(&ast.BasicLit{Kind: token.CHAR, Value: "'a'"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal('a'))
		})

		It("should unquote an escaped character literal", func() {
			value, err := argstates.GetChar(&ast.BasicLit{Kind: token.CHAR, Value: `'\n'`})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal('\n'))
		})

		It("should read a string literal", func() {
			value, err := argstates.GetString(&ast.BasicLit{Kind: token.STRING, Value: `"hello"`})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal("hello"))
		})

		It("should reject a node of the wrong kind", func() {
			_, err := argstates.GetInt(&ast.BasicLit{Kind: token.STRING, Value: `"41"`})
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when resolving package paths", func() {
		It("should return a plain path unchanged", func() {
			paths, err := argstates.PackagePaths("/some/pkg", nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(Equal([]string{"/some/pkg"}))
		})

		It("should expand a recursive path to the directories with Go files", func() {
			dir, err := os.MkdirTemp("", "argstates_paths")
			Expect(err).ShouldNot(HaveOccurred())
			defer os.RemoveAll(dir)

			sub := filepath.Join(dir, "sub")
			Expect(os.Mkdir(sub, 0o755)).Should(Succeed())
			Expect(os.WriteFile(filepath.Join(sub, "main.go"), []byte("package main"), 0o644)).Should(Succeed())

			paths, err := argstates.PackagePaths(dir+"/...", nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(ConsistOf(sub))
		})

		It("should skip excluded directories", func() {
			dir, err := os.MkdirTemp("", "argstates_paths")
			Expect(err).ShouldNot(HaveOccurred())
			defer os.RemoveAll(dir)

			vendor := filepath.Join(dir, "vendor")
			Expect(os.Mkdir(vendor, 0o755)).Should(Succeed())
			Expect(os.WriteFile(filepath.Join(vendor, "dep.go"), []byte("package dep"), 0o644)).Should(Succeed())

			excludes := argstates.ExcludedDirsRegExp([]string{"vendor"})
			paths, err := argstates.PackagePaths(dir+"/...", excludes)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(BeEmpty())
		})

		It("should return an empty slice for a missing recursive root", func() {
			paths, err := argstates.PackagePaths("/does/not/exist/...", nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(BeEmpty())
		})
	})

	Context("when computing the scan root", func() {
		It("should resolve the absolute root of a recursive path", func() {
			cwd, err := os.Getwd()
			Expect(err).ShouldNot(HaveOccurred())

			root, err := argstates.RootPath("./...")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(root).Should(Equal(cwd))
		})
	})
})
