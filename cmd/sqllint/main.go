// Command sqllint checks that every SQL string constant carries a unique
// "--sql <uuid>" audit marker on its first line.
//
// Usage:
//
//	go run ./cmd/sqllint ./internal/sqlinline
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"crowdfund/internal/infra"
)

var sqlKeyword = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create)\b`)

type finding struct {
	pos  token.Position
	name string
	msg  string
}

func (f finding) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", f.pos.Filename, f.pos.Line, f.msg, f.name)
}

func main() {
	flag.Parse()
	os.Exit(run(flag.Args(), os.Stderr))
}

func run(targets []string, out io.Writer) int {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	findings, err := lint(targets)
	if err != nil {
		fmt.Fprintf(out, "sqllint: %v\n", err)
		return 2
	}
	if len(findings) == 0 {
		return 0
	}
	fmt.Fprintln(out, "sqllint: SQL audit marker violations")
	for _, f := range findings {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return 1
}

// lint walks targets and reports missing, malformed or duplicated markers.
func lint(targets []string) ([]finding, error) {
	fset := token.NewFileSet()
	seen := map[string]finding{}
	var findings []finding

	visit := func(path string) error {
		file, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			return err
		}
		ast.Inspect(file, func(n ast.Node) bool {
			vs, ok := n.(*ast.ValueSpec)
			if !ok {
				return true
			}
			for i, value := range vs.Values {
				lit, ok := value.(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				raw, err := unquote(lit.Value)
				if err != nil || !sqlKeyword.MatchString(raw) {
					continue
				}
				f := finding{pos: fset.Position(lit.Pos()), name: valueName(vs, i)}
				marker, _, err := infra.ExtractMarker(raw)
				if err != nil {
					f.msg = "missing or invalid --sql <uuid> marker"
					findings = append(findings, f)
					continue
				}
				if prev, dup := seen[marker]; dup {
					f.msg = fmt.Sprintf("marker %s already used by %s", marker, prev.name)
					findings = append(findings, f)
					continue
				}
				seen[marker] = f
			}
			return true
		})
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := visit(target); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != target && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].pos.Filename != findings[j].pos.Filename {
			return findings[i].pos.Filename < findings[j].pos.Filename
		}
		return findings[i].pos.Line < findings[j].pos.Line
	})
	return findings, nil
}

func valueName(vs *ast.ValueSpec, i int) string {
	if i < len(vs.Names) && vs.Names[i] != nil {
		return vs.Names[i].Name
	}
	return "_"
}

func unquote(v string) (string, error) {
	if strings.HasPrefix(v, "`") {
		return strings.Trim(v, "`"), nil
	}
	return strconv.Unquote(v)
}
