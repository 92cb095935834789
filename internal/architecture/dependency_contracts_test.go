// Where: internal/architecture/dependency_contracts_test.go
// What: Contract checks for anti-pattern dependency usage across internal layers.
// Why: Commands receive clients through Dependencies; use cases log through ports.
package architecture

import (
	"go/ast"
	"go/parser"
	pathpkg "path"
	"sort"
	"strconv"
	"strings"
	"testing"
)

type dependencyContract struct {
	forbiddenImports []string
	// forbiddenCalls maps an import path to banned package-level functions.
	forbiddenCalls map[string][]string
}

var printCalls = []string{"Print", "Printf", "Println"}

var dependencyContracts = map[string]dependencyContract{
	"command": {
		forbiddenImports: []string{
			"github.com/aws/aws-sdk-go-v2/service/lambda",
			"github.com/docker/docker/client",
		},
		forbiddenCalls: map[string][]string{
			internalImportPrefix + "infra/lambda": {"NewClientFactory", "NewDockerClient"},
		},
	},
	"usecase": {
		forbiddenImports: []string{
			"github.com/aws/aws-sdk-go-v2/service/lambda",
			"github.com/docker/docker/client",
		},
		forbiddenCalls: map[string][]string{
			"fmt":  printCalls,
			"time": {"Sleep"},
		},
	},
	"domain": {
		forbiddenCalls: map[string][]string{
			"fmt": printCalls,
		},
	},
	"infra/manifest": {
		forbiddenCalls: map[string][]string{
			"fmt": printCalls,
		},
	},
}

func TestDependencyContracts(t *testing.T) {
	t.Parallel()

	violations := []string{}
	walkSources(t, parser.ParseComments, func(src sourceFile) {
		contract, ok := dependencyContractForPackage(src.pkg)
		if !ok {
			return
		}
		violations = append(violations, contractViolations(src, contract)...)
	})
	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("dependency contract violations:\n%s", strings.Join(violations, "\n"))
	}
}

func dependencyContractForPackage(pkg string) (dependencyContract, bool) {
	pkg = strings.TrimSpace(pkg)
	for prefix, contract := range dependencyContracts {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
			return contract, true
		}
	}
	return dependencyContract{}, false
}

func contractViolations(src sourceFile, contract dependencyContract) []string {
	violations := []string{}
	at := func(node ast.Node) string {
		return src.rel + ":" + strconv.Itoa(src.fset.Position(node.Pos()).Line)
	}

	aliases := map[string]string{}
	for _, imp := range src.file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		for _, forbidden := range contract.forbiddenImports {
			if importPath == forbidden {
				violations = append(violations, at(imp)+" -> import "+importPath)
			}
		}
		alias := pathpkg.Base(importPath)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
		}
		aliases[alias] = importPath
	}

	ast.Inspect(src.file, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		selector, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		ident, ok := selector.X.(*ast.Ident)
		if !ok {
			return true
		}
		importPath, ok := aliases[ident.Name]
		if !ok {
			return true
		}
		for _, symbol := range contract.forbiddenCalls[importPath] {
			if symbol == selector.Sel.Name {
				violations = append(violations, at(call)+" -> call "+importPath+"."+symbol)
			}
		}
		return true
	})
	return violations
}
