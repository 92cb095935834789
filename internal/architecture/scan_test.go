// Where: internal/architecture/scan_test.go
// What: Shared source walker for architecture guard tests.
// Why: Every guard inspects the same non-test files under internal/.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru/esb-concurrency/internal/"

type sourceFile struct {
	rel  string
	pkg  string
	fset *token.FileSet
	file *ast.File
}

func (s sourceFile) importPaths() []string {
	out := make([]string, 0, len(s.file.Imports))
	for _, imp := range s.file.Imports {
		out = append(out, strings.Trim(imp.Path.Value, "\""))
	}
	return out
}

// walkSources parses every non-test Go file under internal/ and calls visit.
func walkSources(t *testing.T, mode parser.Mode, visit func(sourceFile)) {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		visit(sourceFile{
			rel:  filepath.ToSlash(rel),
			pkg:  filepath.ToSlash(filepath.Dir(rel)),
			fset: fset,
			file: file,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root := filepath.Clean(filepath.Join(wd, "..", ".."))
	return filepath.Join(root, "internal")
}
