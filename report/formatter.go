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

// Package report writes an argument-state catalogue to an output stream
// in one of the supported formats.
package report

import (
	"io"

	"github.com/Kafva/argstates"
	"github.com/Kafva/argstates/report/csv"
	"github.com/Kafva/argstates/report/json"
	"github.com/Kafva/argstates/report/text"
	"github.com/Kafva/argstates/report/yaml"
)

// CreateReport generates a report for the supplied catalogue in the given
// format. The formats currently accepted are: json, yaml, csv and text.
func CreateReport(w io.Writer, format string, enableColor bool, data *argstates.ReportInfo) error {
	var err error
	switch format {
	case "json":
		err = json.WriteReport(w, data)
	case "yaml":
		err = yaml.WriteReport(w, data)
	case "csv":
		err = csv.WriteReport(w, data)
	case "text":
		err = text.WriteReport(w, data, enableColor)
	default:
		err = text.WriteReport(w, data, enableColor)
	}
	return err
}
