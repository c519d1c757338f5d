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

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Kafva/argstates"
	"github.com/Kafva/argstates/report"
)

const (
	usageText = `
argstates - argument state enumeration for Go

argstates analyzes Go source code and catalogues, per target function and
parameter position, every argument value observed at the call sites. A
parameter whose observed value set is complete can be pinned to that set
instead of being fuzzed blindly.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Catalogue the calls to Parse and expat.Parse in a single package
	$ argstates -symbols=Parse,expat.Parse $GOPATH/src/github.com/example/project

	# Read the target symbols from a file, scan recursively and save the
	# results in json format
	$ argstates -symbols-file=symbols.txt -fmt=json -out=states.json ./...

`
)

var (
	// comma separated list of target symbols
	flagSymbols = flag.String("symbols", "", "Comma separated list of target symbols, e.g. Parse,expat.Parse")

	// file with one target symbol per line
	flagSymbolsFile = flag.String("symbols-file", "", "Path to a file with one target symbol per line")

	// format output
	flagFormat = flag.String("fmt", "text", "Set output format. Valid options are: json, yaml, csv or text")

	// output file
	flagOutput = flag.String("out", "", "Set output file for results")

	// config file
	flagConfig = flag.String("conf", "", "Path to optional config file")

	// quiet
	flagQuiet = flag.Bool("quiet", false, "Only show output when states are found")

	// log to file or stderr
	flagLogfile = flag.String("log", "", "Log messages to file rather than stderr")

	// do not print colorized output
	flagNoColor = flag.Bool("nocolor", false, "Disable color output in the text report")

	// print the Go build errors encountered while loading packages
	flagShowErrors = flag.Bool("show-errors", false, "Include Go build errors in the report")

	// directories to exclude from the scan
	flagDirsExclude arrayFlags

	// go build tags
	flagBuildTags = flag.String("tags", "", "Comma separated list of build tags")

	// print version and quit with exit code 0
	flagVersion = flag.Bool("version", false, "Print version and quit with exit code 0")

	logger *log.Logger
)

// arrayFlags collects the values of a repeatable string flag
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func usage() {
	usageText := fmt.Sprintf(usageText, Version, GitTag, BuildDate)
	fmt.Fprintln(os.Stderr, usageText)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\n")
}

func loadConfig(configFile string) (argstates.Config, error) {
	config := argstates.NewConfig()
	if configFile != "" {
		// #nosec
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}
	if *flagSymbolsFile != "" {
		config.SetGlobal(argstates.SymbolsFile, *flagSymbolsFile)
	}
	if *flagNoColor {
		config.SetGlobal(argstates.NoColor, "true")
	}
	if *flagShowErrors {
		config.SetGlobal(argstates.ShowErrors, "true")
	}
	return config, nil
}

// loadSymbols resolves the target symbol list from the -symbols flag, the
// -symbols-file flag or the configuration, in that order of precedence
func loadSymbols(config argstates.Config) (argstates.SymbolList, error) {
	if *flagSymbols != "" {
		reader := strings.NewReader(strings.ReplaceAll(*flagSymbols, ",", "\n"))
		return argstates.LoadSymbols(reader)
	}
	if path, err := config.GetGlobal(argstates.SymbolsFile); err == nil && path != "" {
		return argstates.LoadSymbolsFile(path)
	}
	return nil, fmt.Errorf("no target symbols given, use -symbols or -symbols-file")
}

func saveReport(filename, format string, enableColor bool, reportInfo *argstates.ReportInfo) error {
	if filename == "" {
		return report.CreateReport(os.Stdout, format, enableColor, reportInfo)
	}
	outfile, err := os.Create(filename) // #nosec G304
	if err != nil {
		return err
	}
	defer outfile.Close() // #nosec G307
	return report.CreateReport(outfile, format, enableColor, reportInfo)
}

func getPackagePaths(args []string) ([]string, error) {
	excludedDirs := argstates.ExcludedDirsRegExp([]string(flagDirsExclude))
	var paths []string
	for _, arg := range args {
		pkgPaths, err := argstates.PackagePaths(arg, excludedDirs)
		if err != nil {
			return nil, err
		}
		paths = append(paths, pkgPaths...)
	}
	return paths, nil
}

func main() {
	// Exclude vendor directories by default
	flag.Var(&flagDirsExclude, "exclude-dir", "Exclude folder from scan (can be specified multiple times)")
	err := flag.Set("exclude-dir", "vendor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: failed to exclude the %q directory from scan", "vendor")
	}

	// Setup usage description
	flag.Usage = usage

	// Parse command line arguments
	flag.Parse()

	if *flagVersion {
		fmt.Printf("Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		os.Exit(0)
	}

	// Ensure at least one file was specified
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "\nError: FILE [FILE...] or './...' expected\n") // #nosec
		flag.Usage()
		os.Exit(1)
	}

	// Setup logging
	logWriter := os.Stderr
	if *flagLogfile != "" {
		var e error
		logWriter, e = os.Create(*flagLogfile)
		if e != nil {
			flag.Usage()
			log.Fatal(e)
		}
	}

	if *flagQuiet {
		logger = log.New(io.Discard, "", 0)
	} else {
		logger = log.New(logWriter, "[argstates] ", log.LstdFlags)
	}

	// Load config
	config, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Fatal(err)
	}

	// Load the target symbols
	symbols, err := loadSymbols(config)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("Target symbols: %s", strings.Join(symbols.Names(), ", "))

	// Create the analyzer
	analyzer := argstates.NewAnalyzer(config, symbols, logger)

	packagePaths, err := getPackagePaths(flag.Args())
	if err != nil {
		logger.Fatal(err)
	}
	if len(packagePaths) == 0 {
		logger.Fatal("No packages found")
	}

	var buildTags []string
	if *flagBuildTags != "" {
		buildTags = strings.Split(*flagBuildTags, ",")
	}
	if err := analyzer.Process(buildTags, packagePaths...); err != nil {
		logger.Fatal(err)
	}

	// Collect the results
	catalogue, errors, metrics := analyzer.Report()

	// Exit quietly if nothing was found
	if catalogue.Len() == 0 && *flagQuiet {
		os.Exit(0)
	}

	if showErrors, _ := config.IsGlobalEnabled(argstates.ShowErrors); !showErrors {
		errors = map[string][]argstates.Error{}
	}

	reportInfo := argstates.NewReportInfo(catalogue, metrics, errors)

	noColor, _ := config.IsGlobalEnabled(argstates.NoColor)
	if err := saveReport(*flagOutput, *flagFormat, !noColor, reportInfo); err != nil {
		logger.Fatal(err)
	}

	// Finalize logging
	logWriter.Close() // #nosec

	// An empty catalogue is still a complete run
	os.Exit(0)
}
