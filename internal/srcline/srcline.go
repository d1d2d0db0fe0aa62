// Package srcline inspects a single line of Go source taken from a call site.
package srcline

import (
	"fmt"
	"strings"

	"github.com/ListenOcean/goTableHint/configs"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Statements parses code as the body of a function. It returns nil when the
// line is not a complete statement list, which is common for calls spread
// over several lines.
func Statements(code string) []dst.Stmt {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	file, err := decorator.Parse(fmt.Sprintf(configs.CodeTemplate, code))
	if err != nil {
		return nil
	}
	return file.Decls[0].(*dst.FuncDecl).Body.List
}

// Assignee returns the first named variable assigned by code, or "".
func Assignee(code string) string {
	stmts := Statements(code)
	if len(stmts) == 0 {
		return ""
	}
	switch stmt := stmts[0].(type) {
	case *dst.AssignStmt:
		for _, lhs := range stmt.Lhs {
			if ident, ok := lhs.(*dst.Ident); ok && ident.Name != "_" {
				return ident.Name
			}
		}
	case *dst.DeclStmt:
		gen, ok := stmt.Decl.(*dst.GenDecl)
		if !ok || len(gen.Specs) == 0 {
			return ""
		}
		if spec, ok := gen.Specs[0].(*dst.ValueSpec); ok {
			for _, name := range spec.Names {
				if name.Name != "_" {
					return name.Name
				}
			}
		}
	}
	return ""
}
