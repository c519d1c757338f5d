package report_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kafva/argstates"
	"github.com/Kafva/argstates/report"
)

func createReportInfo() *argstates.ReportInfo {
	catalogue := argstates.NewCatalogue()
	records := []*argstates.CallRecord{
		{
			Symbol: "process",
			Arity:  2,
			Args: []argstates.ArgumentState{
				{Kind: argstates.IntLiteral, Value: "0", ParamIndex: 0},
				{Kind: argstates.StringLiteral, Value: "default", ParamIndex: 1},
			},
		},
		{
			Symbol: "process",
			Arity:  2,
			Args: []argstates.ArgumentState{
				{Kind: argstates.IntLiteral, Value: "1", ParamIndex: 0},
				{Kind: argstates.NonDet, ParamIndex: 1},
			},
		},
	}
	for _, record := range records {
		ExpectWithOffset(1, catalogue.Fold(record)).Should(Succeed())
	}
	metrics := &argstates.Metrics{NumFiles: 1, NumLines: 10, NumCalls: 2, NumNonDet: 1}
	errors := map[string][]argstates.Error{
		"broken.go": {*argstates.NewError(3, 5, "expected '}'")},
	}
	return argstates.NewReportInfo(catalogue, metrics, errors)
}

var _ = Describe("Formatted reports", func() {
	var (
		buf  bytes.Buffer
		data *argstates.ReportInfo
	)

	BeforeEach(func() {
		buf.Reset()
		data = createReportInfo()
	})

	Context("when rendering json", func() {
		It("should produce a document that parses back", func() {
			err := report.CreateReport(&buf, "json", false, data)
			Expect(err).ShouldNot(HaveOccurred())

			var parsed argstates.ReportInfo
			Expect(json.Unmarshal(buf.Bytes(), &parsed)).Should(Succeed())
			Expect(parsed.States).Should(HaveLen(1))
			Expect(parsed.States[0].Symbol).Should(Equal("process"))
			Expect(parsed.States[0].Params[0].Values).Should(Equal([]string{"0", "1"}))
			Expect(parsed.States[0].Params[0].Exhaustive).Should(BeTrue())
			Expect(parsed.States[0].Params[1].Exhaustive).Should(BeFalse())
			Expect(parsed.Stats.NumCalls).Should(Equal(2))
		})
	})

	Context("when rendering yaml", func() {
		It("should include the symbol and its values", func() {
			err := report.CreateReport(&buf, "yaml", false, data)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).Should(ContainSubstring("symbol: process"))
			Expect(buf.String()).Should(ContainSubstring("default"))
		})
	})

	Context("when rendering csv", func() {
		It("should emit one row per parameter", func() {
			err := report.CreateReport(&buf, "csv", false, data)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).Should(ContainSubstring("process,0,true,0;1"))
			Expect(buf.String()).Should(ContainSubstring("process,1,false,default"))
		})
	})

	Context("when rendering text", func() {
		It("should mark exhaustive and open parameters", func() {
			err := report.CreateReport(&buf, "text", false, data)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).Should(ContainSubstring("[process]"))
			Expect(buf.String()).Should(ContainSubstring("param0 exhaustive"))
			Expect(buf.String()).Should(ContainSubstring("param1 open"))
			Expect(buf.String()).Should(ContainSubstring("Non-deterministic states: 1"))
		})

		It("should list the golang errors", func() {
			err := report.CreateReport(&buf, "text", false, data)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).Should(ContainSubstring("broken.go"))
			Expect(buf.String()).Should(ContainSubstring("expected '}'"))
		})
	})

	Context("when the format is unknown", func() {
		It("should fall back to the text report", func() {
			err := report.CreateReport(&buf, "wat", false, data)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).Should(ContainSubstring("[process]"))
		})
	})
})
