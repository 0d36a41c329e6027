// Command oveo is a small CLI front end over pkg/api, demonstrating the
// engine's module and chunk phases outside of a host bundler. It is not
// itself a bundler: it reads one file (or stdin), runs one phase, and
// writes the result (or stdout).
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/localvoid/oveo/pkg/api"
)

const helpText = `
Usage:
  oveo [options] [input-file]

Phase selection:
  --chunk                   Run the chunk phase (dedupe, globals,
                             rename-properties) instead of the module
                             phase (inline-extern, hoist)

Module-phase options:
  --hoist                   Enable the hoist pass
  --externs=FILE            Load an externs descriptor and enable
                             inline-extern-value substitution

Chunk-phase options:
  --dedupe                  Enable the dedupe pass
  --globals=LIST            Comma-separated global categories to
                             recognize (js, web, web:battery, ...)
  --globals-hoist           Alias recognized globals to shared consts
  --singletons              Share one instance per singleton global
  --rename-properties       Enable the rename-properties pass
  --rename-pattern=REGEX    Only rename property names matching REGEX
  --property-map=FILE       Load/persist the property-name map at FILE
  --url=BASE                Rewrite new URL("./x", import.meta.url).href
                             to BASE + "x"

General:
  --outfile=FILE            Write output here instead of stdout
  -h, --help                Show this help text

Examples:
  oveo --hoist module.js > module.out.js
  oveo --chunk --dedupe --globals=js --globals-hoist chunk.js
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		chunkPhase      bool
		hoist           bool
		externsPath     string
		dedupe          bool
		globalsList     string
		globalsHoist    bool
		singletons      bool
		renameEnabled   bool
		renamePattern   string
		propertyMapPath string
		urlBase         string
		outfile         string
		inputFile       string
	)

	for _, arg := range args {
		switch {
		case arg == "-h", arg == "-help", arg == "--help":
			fmt.Fprint(os.Stderr, helpText)
			return 0
		case arg == "--chunk":
			chunkPhase = true
		case arg == "--hoist":
			hoist = true
		case strings.HasPrefix(arg, "--externs="):
			externsPath = arg[len("--externs="):]
		case arg == "--dedupe":
			dedupe = true
		case strings.HasPrefix(arg, "--globals="):
			globalsList = arg[len("--globals="):]
		case arg == "--globals-hoist":
			globalsHoist = true
		case arg == "--singletons":
			singletons = true
		case arg == "--rename-properties":
			renameEnabled = true
		case strings.HasPrefix(arg, "--rename-pattern="):
			renamePattern = arg[len("--rename-pattern="):]
		case strings.HasPrefix(arg, "--property-map="):
			propertyMapPath = arg[len("--property-map="):]
		case strings.HasPrefix(arg, "--url="):
			urlBase = arg[len("--url="):]
		case strings.HasPrefix(arg, "--outfile="):
			outfile = arg[len("--outfile="):]
		case strings.HasPrefix(arg, "-"):
			pterm.Error.Printfln("unknown option: %s", arg)
			return 1
		default:
			if inputFile != "" {
				pterm.Error.Printfln("multiple input files given: %s and %s", inputFile, arg)
				return 1
			}
			inputFile = arg
		}
	}

	source, err := readInput(inputFile)
	if err != nil {
		pterm.Error.Printfln("reading input: %v", err)
		return 1
	}

	options := api.Options{
		Hoist:  hoist,
		Dedupe: dedupe,
		Globals: api.GlobalsOptions{
			Include:    splitList(globalsList),
			Hoist:      globalsHoist,
			Singletons: singletons,
		},
		Externs: api.ExternsOptions{
			InlineConstValues: externsPath != "",
		},
		RenameProperties: api.RenamePropertiesOptions{
			Enabled: renameEnabled,
			Pattern: renamePattern,
		},
		URL: urlBase,
	}

	opt := api.New(options)

	if externsPath != "" {
		data, err := os.ReadFile(externsPath)
		if err != nil {
			pterm.Error.Printfln("reading externs file: %v", err)
			return 1
		}
		if err := opt.ImportExterns(data); err != nil {
			pterm.Error.Printfln("%v", err)
			return 1
		}
	}

	if propertyMapPath != "" {
		if data, err := os.ReadFile(propertyMapPath); err == nil {
			if err := opt.ImportPropertyMap(data); err != nil {
				pterm.Error.Printfln("%v", err)
				return 1
			}
		} else if !os.IsNotExist(err) {
			pterm.Error.Printfln("reading property map: %v", err)
			return 1
		}
	}

	var (
		result   api.Result
		warnings []api.Warning
	)
	if chunkPhase {
		result, warnings, err = opt.RenderChunk(source)
	} else {
		result, warnings, err = opt.Transform(source, api.JS)
	}
	if err != nil {
		pterm.Error.Printfln("%v", err)
		return 1
	}
	for _, w := range warnings {
		pterm.Warning.Println(w.Text)
	}

	if propertyMapPath != "" {
		if updated := opt.UpdatePropertyMap(); updated != nil {
			if err := os.WriteFile(propertyMapPath, updated, 0o644); err != nil {
				pterm.Error.Printfln("writing property map: %v", err)
				return 1
			}
		}
	}

	if err := writeOutput(outfile, result.Code); err != nil {
		pterm.Error.Printfln("writing output: %v", err)
		return 1
	}

	return 0
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(path, code string) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, code)
		return err
	}
	return os.WriteFile(path, []byte(code), 0o644)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
