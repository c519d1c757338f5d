package argstates_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kafva/argstates"
)

var _ = Describe("Configuration", func() {
	var configuration argstates.Config

	BeforeEach(func() {
		configuration = argstates.NewConfig()
	})

	Context("when creating a new config", func() {
		It("should be possible to get the global section", func() {
			settings, err := configuration.Get("global")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(settings).ShouldNot(BeNil())
		})

		It("should return an error for an unknown section", func() {
			_, err := configuration.Get("nope")
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when using global options", func() {
		It("should be possible to set and get a global option", func() {
			configuration.SetGlobal(argstates.SymbolsFile, "symbols.txt")
			value, err := configuration.GetGlobal(argstates.SymbolsFile)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal("symbols.txt"))
		})

		It("should return an error for an unset global option", func() {
			_, err := configuration.GetGlobal(argstates.NoColor)
			Expect(err).Should(HaveOccurred())
		})

		It("should report an enabled global option", func() {
			configuration.SetGlobal(argstates.NoColor, "true")
			enabled, err := configuration.IsGlobalEnabled(argstates.NoColor)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(enabled).Should(BeTrue())
		})

		It("should report a disabled global option", func() {
			configuration.SetGlobal(argstates.NoColor, "false")
			enabled, err := configuration.IsGlobalEnabled(argstates.NoColor)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(enabled).Should(BeFalse())
		})
	})

	Context("when reading configuration data", func() {
		It("should load the global options", func() {
			config := `{"global": {"nocolor": "enabled", "show-errors": "true"}}`
			_, err := configuration.ReadFrom(strings.NewReader(config))
			Expect(err).ShouldNot(HaveOccurred())

			enabled, err := configuration.IsGlobalEnabled(argstates.NoColor)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(enabled).Should(BeTrue())

			enabled, err = configuration.IsGlobalEnabled(argstates.ShowErrors)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(enabled).Should(BeTrue())
		})

		It("should reject malformed json", func() {
			_, err := configuration.ReadFrom(strings.NewReader("not json"))
			Expect(err).Should(HaveOccurred())
		})

		It("should reject an invalid global section", func() {
			_, err := configuration.ReadFrom(strings.NewReader(`{"global": "oops"}`))
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when writing configuration data", func() {
		It("should serialize the global section", func() {
			configuration.SetGlobal(argstates.SymbolsFile, "symbols.txt")
			var out bytes.Buffer
			_, err := configuration.WriteTo(&out)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out.String()).Should(ContainSubstring("global"))
			Expect(out.String()).Should(ContainSubstring("symbols.txt"))
		})
	})
})
