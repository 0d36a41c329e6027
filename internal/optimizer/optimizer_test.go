package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jsparser"
	"github.com/localvoid/oveo/internal/jsprinter"
	"github.com/localvoid/oveo/internal/logger"
)

// parseOK parses source as a module and fails the test immediately if
// the frontend reported any errors, grounded on the teacher's own
// expectPrinted helper (parse, assert clean, hand back the tree).
func parseOK(t *testing.T, source string) *jsast.AST {
	t.Helper()
	log := logger.NewLog()
	ast := jsparser.Parse(source, jsparser.JS, log)
	require.False(t, log.HasErrors(), "unexpected parse errors in %q", source)
	return ast
}

func print(ast *jsast.AST) string {
	return jsprinter.Print(ast, func(ref jsast.Ref) string { return ast.Sym(ref).OriginalName })
}

const oveoImport = `import {hoist, scope, dedupe, key} from "oveo";`

// oveoImportPrinted is how jsprinter renders oveoImport back out, named
// specifiers spaced the way printImport always spaces them.
const oveoImportPrinted = "import { hoist, scope, dedupe, key } from \"oveo\";\n"
