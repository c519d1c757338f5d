package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Kafva/argstates"
)

// WriteReport write a report in csv format to the output writer. Each row
// holds one parameter slot: symbol, parameter index, exhaustive flag and
// the observed values joined with semicolons.
func WriteReport(w io.Writer, data *argstates.ReportInfo) error {
	out := csv.NewWriter(w)
	defer out.Flush()
	for _, states := range data.States {
		for i, param := range states.Params {
			err := out.Write([]string{
				states.Symbol,
				strconv.Itoa(i),
				strconv.FormatBool(param.Exhaustive),
				strings.Join(param.Values, ";"),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
