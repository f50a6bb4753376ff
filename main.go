// Command g10asm is the CLI driver for the G10 assembler (spec §6.4):
// one or more source paths in, a single .g10obj object path out. It is
// grounded on the teacher's flag-based main.go, trimmed to the minimal
// surface spec.md names rather than the teacher's debugger/VM/API-server
// options, which have no equivalent in an assemble-only tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/g10toolchain/g10asm/asmerr"
	"github.com/g10toolchain/g10asm/ast"
	"github.com/g10toolchain/g10asm/astparser"
	"github.com/g10toolchain/g10asm/codegen"
	"github.com/g10toolchain/g10asm/config"
	"github.com/g10toolchain/g10asm/lexer"
	"github.com/g10toolchain/g10asm/object"
)

// Version is the assembler's version string, overridable at build time
// with -ldflags "-X main.Version=v1.2.3", matching the teacher's pattern.
var Version = "dev"

// includeDirs collects repeated -I flags, per spec §6.4's "-I include
// directory list forwarded to the preprocessor."
type includeDirs []string

func (d *includeDirs) String() string { return strings.Join(*d, ",") }
func (d *includeDirs) Set(v string) error {
	*d = append(*d, v)
	return nil
}

func main() {
	var (
		output       = flag.String("o", "", "output object file path (default: first source file's name with .g10obj)")
		configPath   = flag.String("config", "", "path to a TOML assembler configuration file")
		debugSymbols = flag.Bool("debug-symbols", false, "emit a human-readable symbol/section dump alongside the object file")
		showVersion  = flag.Bool("version", false, "print version information and exit")
		includes     includeDirs
	)
	flag.Var(&includes, "I", "include directory forwarded to the preprocessor (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("g10asm %s\n", Version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "g10asm: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Assemble.IncludeDirs = append(cfg.Assemble.IncludeDirs, includes...)
	if *debugSymbols {
		cfg.Output.DebugSymbols = true
	}

	sources := flag.Args()
	outputPath := *output
	if outputPath == "" {
		outputPath = defaultOutputPath(sources[0])
	}

	if err := assemble(sources, outputPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "g10asm: %v\n", err)
		os.Exit(1)
	}
}

func defaultOutputPath(firstSource string) string {
	ext := filepath.Ext(firstSource)
	base := strings.TrimSuffix(firstSource, ext)
	return base + ".g10obj"
}

// assemble runs the full pipeline for one or more source files: lex,
// parse, merge (spec's multi-file supplement), Pass 1, Pass 2, write.
func assemble(sources []string, outputPath string, cfg *config.Config) error {
	cache := lexer.NewCache()

	var programs []*ast.Program
	for _, src := range sources {
		toks, err := cache.LexFile(src)
		if err != nil {
			return err
		}
		prog, err := astparser.New(src, toks).Parse()
		if err != nil {
			return err
		}
		programs = append(programs, prog)
	}

	merged, err := astparser.Merge(programs...)
	if err != nil {
		return err
	}

	resolved, err := codegen.ResolveAddresses(merged)
	if err != nil {
		return err
	}

	sourceName := filepath.Base(sources[0])
	obj, err := codegen.Emit(sourceName, merged, resolved)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath) // #nosec G304 -- user-specified assembler output path
	if err != nil {
		return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("create output file: %v", err))
	}
	writeErr := object.Write(out, obj)
	closeErr := out.Close()
	if writeErr != nil {
		_ = os.Remove(outputPath) // no partial output is kept on failure, per spec §5/§7
		return writeErr
	}
	if closeErr != nil {
		return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("close output file: %v", closeErr))
	}

	if cfg.Output.DebugSymbols {
		dumpPath := outputPath + ".syms.txt"
		if err := dumpDebugSymbols(dumpPath, obj); err != nil {
			return err
		}
	}
	return nil
}

// dumpDebugSymbols writes a human-readable section/symbol/relocation
// dump alongside the object file (SPEC_FULL.md's supplemented
// "-debug-symbols" feature, grounded on the teacher's dumpSymbolTable).
func dumpDebugSymbols(path string, obj *object.File) error {
	f, err := os.Create(path) // #nosec G304 -- derived from a user-specified output path
	if err != nil {
		return asmerr.New(asmerr.Writer, asmerr.Position{}, "", fmt.Sprintf("create symbol dump: %v", err))
	}
	defer f.Close()

	fmt.Fprintln(f, "Sections")
	fmt.Fprintln(f, "========")
	for i, s := range obj.Sections {
		fmt.Fprintf(f, "%2d  base=0x%08X  size=%-6d  flags=0x%04X\n", i, s.Base, s.Size(), s.Flags)
	}

	fmt.Fprintln(f)
	fmt.Fprintln(f, "Symbols")
	fmt.Fprintln(f, "=======")
	syms := make([]int, len(obj.Symbols))
	for i := range syms {
		syms[i] = i
	}
	sort.Slice(syms, func(i, j int) bool { return obj.Symbols[syms[i]].Name < obj.Symbols[syms[j]].Name })
	for _, i := range syms {
		sym := obj.Symbols[i]
		fmt.Fprintf(f, "%-24s value=0x%08X section=%-4d type=%-2d binding=%-2d\n",
			sym.Name, sym.Value, int16(sym.SectionIndex), sym.Type, sym.Binding)
	}

	fmt.Fprintln(f)
	fmt.Fprintln(f, "Relocations")
	fmt.Fprintln(f, "===========")
	for _, r := range obj.Relocations {
		fmt.Fprintf(f, "offset=0x%08X section=%-4d symbol=%-24s type=%-2d addend=%d\n",
			r.Offset, r.SectionIndex, r.SymbolName, r.Type, r.Addend)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `g10asm %s — G10 assembler

Usage: g10asm [options] <source.asm> [more-sources.asm ...]

Options:
  -o PATH            output object file path (default: first source with .g10obj)
  -I DIR              include directory forwarded to the preprocessor (repeatable)
  -config PATH         TOML configuration file
  -debug-symbols       also write a human-readable symbol/section dump
  -version             print version information and exit

Multiple source files are assembled as a single program: labels and
extern/global declarations share one scope across all of them, in the
order given on the command line.
`, Version)
}
