// Package gen implements cowgen, a code generator that scans a package
// directory for struct types holding cow.Shared[X] fields and emits a
// Step<Field> helper for each one, suitable for passing straight to
// cursor.Step or trail.Push without hand-writing the field-accessor
// closure every time.
//
// The scan-parse-typecheck-emit pipeline below follows a standard
// go/build + go/parser + go/types pattern: find the package on
// GOPATH-style disk layout, parse every file in it, run a lenient
// go/types check over the AST, then look up the requested type names in
// the resulting package scope. What counts as "this struct is relevant"
// and what gets emitted for it is the one generator-specific step: a
// struct qualifies by having at least one cow.Shared[X] field.
package gen

import (
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// config mirrors the command-line flags cmd/cowgen exposes.
type config struct {
	dir       string
	outFile   string
	typeNames []string
}

// generation represents a single run of the generator.
type generation struct {
	astFiles []*ast.File
	// Allows additional files to be added to the parse phase for testing.
	extraTestSource map[string][]byte
	fileSet         *token.FileSet
	// By default the input is type-checked leniently and type errors are
	// ignored; with fullCheck set, typeCheck returns them.
	fullCheck bool
	inputDir  string
	outFile   string
	pkg       *types.Package
	source    *build.Package
	// The keys are the requested struct type names; a nil value means
	// "requested but not found yet".
	structs     map[string]*cowStruct
	writeCloser func(name string) (io.WriteCloser, error)
}

// newGeneration constructs a generation that will look for the named
// struct types in cfg.dir.
func newGeneration(cfg config) (*generation, error) {
	if cfg.dir == "" {
		cfg.dir = "."
	}
	ret := &generation{
		fileSet:  token.NewFileSet(),
		inputDir: cfg.dir,
		outFile:  cfg.outFile,
		structs:  make(map[string]*cowStruct, len(cfg.typeNames)),
		writeCloser: func(name string) (io.WriteCloser, error) {
			return os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		},
	}
	for _, name := range cfg.typeNames {
		ret.structs[name] = nil
	}
	return ret, nil
}

// Execute runs the complete scan-and-emit cycle.
func (g *generation) Execute() error {
	if err := g.importSources(); err != nil {
		return err
	}

	files := append(g.source.GoFiles, g.source.TestGoFiles...)
	if len(g.extraTestSource) > 0 {
		if err := g.addSource(g.extraTestSource); err != nil {
			return err
		}
		filtered := files[:0]
		for _, file := range files {
			if g.extraTestSource[file] == nil {
				filtered = append(filtered, file)
			}
		}
		files = filtered
	}

	if err := g.parseFiles(files); err != nil {
		return err
	}
	if err := g.typeCheck(); err != nil {
		return err
	}
	if err := g.findSharedStructs(); err != nil {
		return err
	}

	for name, s := range g.structs {
		if s == nil {
			return errors.Errorf("cowgen: type %q was not found in %s, or has no cow.Shared fields", name, g.inputDir)
		}
		if err := s.generateSteps(g); err != nil {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

func (g *generation) addSource(source map[string][]byte) error {
	for name, data := range source {
		astFile, err := parser.ParseFile(g.fileSet, name, string(data), 0 /* Mode */)
		if err != nil {
			return err
		}
		g.astFiles = append(g.astFiles, astFile)
	}
	return nil
}

// importSources finds files on disk that we want to read. The generated
// code carries a build tag so that a stale, previously-generated file
// doesn't shadow or conflict with the type information we're re-deriving.
func (g *generation) importSources() error {
	ctx := build.Default
	ctx.BuildTags = append(ctx.BuildTags, "cowgenAnalysis")

	pkg, err := ctx.ImportDir(g.inputDir, 0)
	if err != nil {
		return err
	}
	g.source = pkg
	return nil
}

// parseFiles runs the Go parser to produce AST elements for every source
// file in the package.
func (g *generation) parseFiles(files []string) error {
	for _, path := range files {
		astFile, err := parser.ParseFile(g.fileSet, filepath.Join(g.inputDir, path), nil, 0 /* Mode */)
		if err != nil {
			return err
		}
		g.astFiles = append(g.astFiles, astFile)
	}
	return nil
}

// typeCheck runs the go/types checker over the parsed files. It is lenient
// unless g.fullCheck is set, since the package being scanned may itself
// depend on a previously-generated file that hasn't been written yet.
func (g *generation) typeCheck() error {
	cfg := &types.Config{
		Importer: importer.For("source", nil),
	}
	if !g.fullCheck {
		cfg.DisableUnusedImportCheck = true
		cfg.Error = func(err error) {}
		cfg.IgnoreFuncBodies = true
	}
	var err error
	g.pkg, err = cfg.Check(g.inputDir, g.fileSet, g.astFiles, nil /* info */)
	if err != nil && g.fullCheck {
		return err
	}
	return nil
}

// findSharedStructs looks up every requested type name in the checked
// package scope and classifies its cow.Shared[X] fields.
func (g *generation) findSharedStructs() error {
	scope := g.pkg.Scope()

	for name := range g.structs {
		obj := scope.Lookup(name)
		if obj == nil {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		structType, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		cs := &cowStruct{Named: named, Struct: structType}
		for i, n := 0, structType.NumFields(); i < n; i++ {
			f := structType.Field(i)
			if !f.Exported() {
				continue
			}
			if elem, ok := sharedElem(f.Type()); ok {
				cs.Fields = append(cs.Fields, sharedField{Name: f.Name(), Elem: elem})
			}
		}
		if len(cs.Fields) == 0 {
			continue
		}
		g.structs[name] = cs
	}
	return nil
}

// sharedElem reports whether t is an instantiation of cow.Shared[X] and,
// if so, returns X.
func sharedElem(t types.Type) (types.Type, bool) {
	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	obj := named.Obj()
	if obj == nil || obj.Name() != "Shared" {
		return nil, false
	}
	if obj.Pkg() == nil || !isCowPackage(obj.Pkg().Path()) {
		return nil, false
	}
	args := named.TypeArgs()
	if args == nil || args.Len() != 1 {
		return nil, false
	}
	return args.At(0), true
}

// isCowPackage reports whether path names the cow package itself (not a
// subpackage like cow/cursor or cow/trail, which don't define Shared).
func isCowPackage(path string) bool {
	return path == "github.com/spinewalk/cow"
}
