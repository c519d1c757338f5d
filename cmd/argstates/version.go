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

package main

import "runtime/debug"

var (
	// Version is the build version
	Version = "dev"
	// GitTag is the git tag of the build
	GitTag = ""
	// BuildDate is the date of the build
	BuildDate = ""
)

// prepareVersionInfo sets the version from the binary build information when
// it was not set by the linker
func prepareVersionInfo() {
	if Version == "dev" {
		buildInfo, _ := debug.ReadBuildInfo()
		if buildInfo != nil {
			Version = buildInfo.Main.Version
		}
	}
}

//nolint:gochecknoinits // Ensures the version is set before flag parsing
func init() {
	prepareVersionInfo()
}
