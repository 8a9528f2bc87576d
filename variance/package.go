package variance

import (
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing/fstest"

	"github.com/cottand/variance/frontend/ast"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/types"
	"github.com/cottand/variance/internal/log"
	"github.com/cottand/variance/parser"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// FileExtension is the extension of declaration files; other files are ignored
const FileExtension = ".vdl"

var packageLogger = log.DefaultLogger.With("section", log.SectionPackage)

// Package is the set of declarations of all the files in a folder, checked together
type Package struct {
	name  string
	files []*ast.File

	fSet    *token.FileSet
	mu      sync.Mutex
	sources map[string][]byte

	errors  *ilerr.Errors
	TypeCtx *types.TypeCtx
}

var _ ilerr.SourceProvider = (*Package)(nil)

// FS is a filesystem packages can be loaded from, like the one returned by os.DirFS
type FS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

type PkgLoadSettings struct {
	// Dir is the path of the folder in the filesystem where the package is located
	// the default is `.`
	Dir string
	// Name of the package, the base name of Dir by default
	Name string
	// Options configure the TypeCtx of the package, like its runtime mode
	Options []types.Option
	// Parallelism bounds the number of files parsed and classes checked at once,
	// GOMAXPROCS when zero
	Parallelism int
}

// LoadPackage parses and checks every declaration file in the folder config.Dir of dir.
//
// Problems in the declarations are not failures: they are reported by Package.Errors.
// The returned error is only set when the files could not be read.
func LoadPackage(ctx context.Context, dir FS, config PkgLoadSettings) (*Package, error) {
	dirPath := config.Dir
	if dirPath == "" {
		dirPath = "."
	}
	entries, err := dir.ReadDir(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list %s", dirPath)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	if len(names) == 0 {
		return nil, errors.Errorf("no %s files found in %s", FileExtension, dirPath)
	}

	pkgName := config.Name
	if pkgName == "" {
		pkgName = path.Base(dirPath)
	}
	pkg := &Package{
		name:    pkgName,
		fSet:    token.NewFileSet(),
		sources: make(map[string][]byte, len(names)),
		files:   make([]*ast.File, len(names)),
	}
	limit := config.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	// read phase
	contents := make([][]byte, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := dir.ReadFile(path.Join(dirPath, name))
			if err != nil {
				return errors.Wrapf(err, "could not read %s", name)
			}
			pkg.setSource(name, data)
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// parse phase, with positions assigned in file name order
	tokenFiles := make([]*token.File, len(names))
	for i, name := range names {
		tokenFiles[i] = pkg.fSet.AddFile(name, -1, len(contents[i]))
	}
	parseErrs := make([]*ilerr.Errors, len(names))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pkg.files[i], parseErrs[i] = parser.ParseTokenFile(tokenFiles[i], contents[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, errs := range parseErrs {
		pkg.errors = pkg.errors.Merge(errs)
	}

	// declaration phase
	table, tableErrs := types.BuildTable(pkg.files)
	pkg.errors = pkg.errors.Merge(tableErrs)
	pkg.TypeCtx = types.NewTypeCtx(table, config.Options...)

	// check phase
	classes := table.Classes()
	classErrs := make([]*ilerr.Errors, len(classes))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, class := range classes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			classErrs[i] = pkg.TypeCtx.CheckClass(class)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, errs := range classErrs {
		pkg.errors = pkg.errors.Merge(errs)
	}
	fns := table.Functions()
	for _, fn := range fns {
		pkg.errors = pkg.errors.Merge(pkg.TypeCtx.CheckFunction(fn))
	}
	pkg.errors = pkg.errors.Merge(pkg.TypeCtx.CheckOverloads(fns))

	packageLogger.Debug("loaded package", "name", pkg.name, "files", len(names), "classes", len(classes), "errors", pkg.errors)
	return pkg, nil
}

// NewPackageFromBytes does all passes end-to-end for a single file, meant for testing
func NewPackageFromBytes(data []byte, filename string, opts ...types.Option) (*Package, *ilerr.Errors, error) {
	if !strings.HasSuffix(filename, FileExtension) {
		filename += FileExtension
	}
	filesystem := fstest.MapFS{
		filename: &fstest.MapFile{
			Data: data,
		},
	}
	pkg, err := LoadPackage(context.Background(), filesystem, PkgLoadSettings{
		Name:    strings.TrimSuffix(filename, FileExtension),
		Options: opts,
	})
	if err != nil {
		return nil, nil, err
	}
	return pkg, pkg.errors, nil
}

func (p *Package) setSource(filename string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[filename] = data
}

func (p *Package) Name() string {
	return p.name
}

func (p *Package) Syntax() []*ast.File {
	return p.files
}

func (p *Package) Errors() *ilerr.Errors {
	return p.errors
}

func (p *Package) FileSet() *token.FileSet {
	return p.fSet
}

func (p *Package) Source(filename string) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sources[filename]
}

// ParseType resolves a type written against the declarations of p. The query is
// registered under name so that errors in it can be displayed with their source.
func (p *Package) ParseType(name, src string) (types.Type, *ilerr.Errors) {
	p.setSource(name, []byte(src))
	expr, errs := parser.ParseType(p.fSet, name, src)
	if errs.HasError() {
		return nil, errs
	}
	return p.TypeCtx.ResolveType(expr)
}

// SubtypeResult answers both flavours of subtyping between two types
type SubtypeResult struct {
	A, B types.Type
	// Subtype lets wildcards satisfy any argument
	Subtype bool
	// Assignable requires a wildcard on the right for a wildcard on the left
	Assignable bool
}

func (r SubtypeResult) String() string {
	switch {
	case r.Assignable:
		return fmt.Sprintf("%s is a subtype of %s", r.A, r.B)
	case r.Subtype:
		return fmt.Sprintf("%s is a subtype of %s only through a wildcard, and needs a cast to be assigned", r.A, r.B)
	default:
		return fmt.Sprintf("%s is not a subtype of %s", r.A, r.B)
	}
}

// Subtype decides whether the type written a is a subtype of the type written b
func (p *Package) Subtype(a, b string) (SubtypeResult, *ilerr.Errors) {
	ta, errs := p.ParseType("a", a)
	tb, errsB := p.ParseType("b", b)
	errs = errs.Merge(errsB)
	if errs.HasError() {
		return SubtypeResult{}, errs
	}
	return SubtypeResult{
		A:          ta,
		B:          tb,
		Subtype:    p.TypeCtx.IsSubtype(ta, tb),
		Assignable: p.TypeCtx.IsAssignable(ta, tb),
	}, errs
}

// Cast classifies a cast from the type written from to the type written to
func (p *Package) Cast(from, to string) (types.CastResult, *ilerr.Errors) {
	tFrom, errs := p.ParseType("from", from)
	tTo, errsTo := p.ParseType("to", to)
	errs = errs.Merge(errsTo)
	if errs.HasError() {
		return types.Impossible, errs
	}
	return p.TypeCtx.CheckCast(tFrom, tTo), errs
}

// DisplayDeclarations lists the classes and functions of p as they were resolved,
// with their full supertype closure
func (p *Package) DisplayDeclarations() string {
	sb := strings.Builder{}
	table := p.TypeCtx.Table()
	for _, class := range table.Classes() {
		if class.Decl == nil {
			continue
		}
		sb.WriteString(class.Decl.Kind.String())
		sb.WriteByte(' ')
		sb.WriteString(class.Name)
		sb.WriteString(types.DescribeParams(class.Params))
		for i, super := range class.Supertypes {
			if i == 0 {
				sb.WriteString(" : ")
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(super.String())
		}
		sb.WriteString("\n    supertypes: ")
		sb.WriteString(strings.Join(table.SupertypeNames(class), ", "))
		sb.WriteByte('\n')
		for _, prop := range class.Properties {
			kw := "val"
			if prop.Mutable {
				kw = "var"
			}
			sb.WriteString(fmt.Sprintf("    %s %s: %s\n", kw, prop.Name, prop.Type))
		}
		for _, fn := range class.Functions {
			sb.WriteString("    ")
			sb.WriteString(types.DescribeFunction(fn))
			sb.WriteByte('\n')
		}
	}
	for _, fn := range table.Functions() {
		sb.WriteString(types.DescribeFunction(fn))
		sb.WriteByte('\n')
	}
	return sb.String()
}
