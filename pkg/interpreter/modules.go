package interpreter

import (
	"strings"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/lexer"
	"github.com/luma-lang/luma/pkg/parser"
	"github.com/luma-lang/luma/pkg/runtime"
	"github.com/luma-lang/luma/pkg/stdlib"
)

func moduleIDString(path []string) string {
	return "@" + strings.Join(path, ".")
}

// loadModule loads a module once per interpreter. The module executes in
// a fresh scope over the globals; its exports are the top-level open
// declarations, plus any native functions registered for the id.
func (i *Interpreter) loadModule(moduleID string) (*runtime.MapValue, error) {
	if exports, ok := i.moduleCache[moduleID]; ok {
		return exports, nil
	}
	if i.modulesLoading[moduleID] {
		return nil, runtimeErrorf("Cyclic import detected: %s", moduleID)
	}
	i.modulesLoading[moduleID] = true
	defer delete(i.modulesLoading, moduleID)

	source, err := i.moduleSource(moduleID)
	if err != nil {
		return nil, err
	}

	var program []ast.Statement
	if source != "" {
		tokens, err := lexer.New(source).ScanTokens()
		if err != nil {
			return nil, runtimeErrorf("Error loading module %s: %v", moduleID, err)
		}
		stmts, parseErrs := parser.New(tokens).Parse()
		if len(parseErrs) > 0 {
			return nil, runtimeErrorf("Error loading module %s: %v", moduleID, parseErrs[0])
		}
		program = stmts
	}

	savedEnv := i.env
	savedExports := i.currentExports
	savedModuleID := i.currentModuleID

	i.env = runtime.NewEnvironment(i.globals)
	i.currentExports = runtime.NewMap()
	i.currentModuleID = ""

	restore := func() {
		i.env = savedEnv
		i.currentExports = savedExports
		i.currentModuleID = savedModuleID
	}

	for _, stmt := range program {
		if err := i.executeStatement(stmt); err != nil {
			restore()
			if _, ok := err.(returnSignal); ok {
				return nil, runtimeErrorf("Return used outside of a function.")
			}
			return nil, err
		}
		i.collectExport(stmt)
	}

	exports := i.currentExports
	restore()

	stdlib.Install(moduleID, exports)
	i.moduleCache[moduleID] = exports
	return exports, nil
}

// moduleSource fetches the module's source text. Modules whose surface
// is purely native (most of @std) need no source file.
func (i *Interpreter) moduleSource(moduleID string) (string, error) {
	if i.resolver == nil {
		if stdlib.HasModule(moduleID) {
			return "", nil
		}
		return "", runtimeErrorf("No module resolver configured for %s.", moduleID)
	}
	source, err := i.resolver.Resolve(moduleID)
	if err != nil {
		if stdlib.HasModule(moduleID) {
			return "", nil
		}
		return "", err
	}
	return source, nil
}

// collectExport adds a just-executed open declaration to the module's
// export map.
func (i *Interpreter) collectExport(stmt ast.Statement) {
	var name string
	switch s := stmt.(type) {
	case *ast.FuncDef:
		if s.Visibility != ast.Open {
			return
		}
		name = s.Name.Lexeme
	case *ast.ClassDef:
		if s.Visibility != ast.Open {
			return
		}
		name = s.Name.Lexeme
	default:
		return
	}
	if v, ok := i.env.Lookup(name); ok {
		i.currentExports.Entries[name] = v
	}
}
