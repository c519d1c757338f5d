package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Kafva/argstates"
)

// WriteReport write a report in yaml format to the output writer
func WriteReport(w io.Writer, data *argstates.ReportInfo) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
