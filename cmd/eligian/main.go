package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	eligian "github.com/rolandzwaga/eligian"
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/registry"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "compile":
		compileCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `eligian CLI

Usage:
  eligian compile -program ast.json -registry ops.yaml [flags]

Flags:
  -program file     parsed program (kind-tagged AST JSON, required)
  -registry file    operation signature table (YAML, required)
  -lib name=file    imported library unit, repeatable
  -o file           output path (default: stdout)
  -pretty           indent the emitted configuration
  -sourcemap file   also write the source map
  -selector sel     container selector override
  -language code    document language override`)
}

// libFlags collects repeated -lib name=file pairs.
type libFlags map[string]string

func (l libFlags) String() string { return fmt.Sprintf("%d libraries", len(l)) }

func (l libFlags) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("expected name=file, got %q", v)
	}
	l[name] = path
	return nil
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var (
		programPath  string
		registryPath string
		outPath      string
		pretty       bool
		mapPath      string
		selector     string
		language     string
	)
	libs := libFlags{}
	fs.StringVar(&programPath, "program", "", "parsed program (AST JSON)")
	fs.StringVar(&registryPath, "registry", "", "operation signature table (YAML)")
	fs.Var(libs, "lib", "imported library unit as name=file, repeatable")
	fs.StringVar(&outPath, "o", "", "output path, stdout when empty")
	fs.BoolVar(&pretty, "pretty", false, "indent the emitted configuration")
	fs.StringVar(&mapPath, "sourcemap", "", "write the source map to this path")
	fs.StringVar(&selector, "selector", "", "container selector override")
	fs.StringVar(&language, "language", "", "document language override")
	_ = fs.Parse(args)
	if programPath == "" || registryPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	prog := readProgram(programPath)
	reg, err := registry.FromYAMLFile(registryPath)
	if err != nil {
		fatalf("%v", err)
	}

	units := make(map[string]*ast.Program, len(libs))
	for name, path := range libs {
		units[name] = readProgram(path)
	}

	opts := []eligian.Option{
		eligian.WithRegistry(reg),
		eligian.WithLibraries(units),
		eligian.WithSourceName(programPath),
	}
	if selector != "" {
		opts = append(opts, eligian.WithContainerSelector(selector))
	}
	if language != "" {
		opts = append(opts, eligian.WithLanguage(language))
	}

	doc, res, err := eligian.Compile(prog, opts...)
	if err != nil {
		reportCompileError(err)
		os.Exit(1)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fatalf("create %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}
	if err := doc.Encode(out, pretty); err != nil {
		fatalf("encode: %v", err)
	}

	if mapPath != "" {
		data, err := json.MarshalIndent(res.SourceMap, "", "  ")
		if err != nil {
			fatalf("encode source map: %v", err)
		}
		if err := os.WriteFile(mapPath, data, 0o644); err != nil {
			fatalf("write %s: %v", mapPath, err)
		}
	}
}

func readProgram(path string) *ast.Program {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("read %s: %v", path, err)
	}
	prog, err := ast.DecodeProgram(data)
	if err != nil {
		fatalf("%s: %v", path, err)
	}
	return prog
}

// reportCompileError renders a compile failure with its stage and, when
// present, suggestions.
func reportCompileError(err error) {
	ce, ok := cerr.As(err)
	if !ok {
		fmt.Fprintf(os.Stderr, "eligian: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "eligian: %s error: %s\n", ce.Stage, ce.Message)
	if ce.Pos.Line > 0 {
		fmt.Fprintf(os.Stderr, "  --> line %d, column %d\n", ce.Pos.Line, ce.Pos.Column)
	}
	if ce.Path != "" {
		fmt.Fprintf(os.Stderr, "  at %s\n", ce.Path)
	}
	if len(ce.Suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "  help: did you mean %s?\n", strings.Join(ce.Suggestions, ", "))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "eligian: "+format+"\n", args...)
	os.Exit(1)
}
