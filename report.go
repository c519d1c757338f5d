package argstates

import (
	"github.com/google/uuid"
)

// ReportInfo is the collected output of one analysis run: the catalogue in
// its persisted shape, the per-file parse errors and the run metrics.
type ReportInfo struct {
	ID     string             `json:"id" yaml:"id"`
	States []SymbolStates     `json:"states" yaml:"states"`
	Errors map[string][]Error `json:"errors" yaml:"errors"`
	Stats  *Metrics           `json:"stats" yaml:"stats"`
}

// NewReportInfo instantiates a ReportInfo from the analyzer results
func NewReportInfo(catalogue *Catalogue, metrics *Metrics, errors map[string][]Error) *ReportInfo {
	return &ReportInfo{
		ID:     uuid.New().String(),
		States: catalogue.Entries(),
		Errors: errors,
		Stats:  metrics,
	}
}
