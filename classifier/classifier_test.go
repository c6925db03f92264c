package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/parser"
)

// classify parses source under the given file name and runs the classifier.
func classify(t *testing.T, fileName, source string) Analysis {
	t.Helper()

	path := filepath.Join(t.TempDir(), fileName)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	p, err := parser.CreateParser(path)
	require.NoError(t, err)
	defer p.Close()

	result, err := p.ParseFile(path)
	require.NoError(t, err)
	defer result.Tree.Close()

	return Classify(result)
}

func TestClassifyModuleSystem(t *testing.T) {
	t.Run("import statement means ESM", func(t *testing.T) {
		analysis := classify(t, "a.js", `import foo from "./foo.js";`)
		assert.Equal(t, ESM, analysis.ModuleSystem)
	})

	t.Run("export statement means ESM", func(t *testing.T) {
		analysis := classify(t, "a.js", `export const answer = 42;`)
		assert.Equal(t, ESM, analysis.ModuleSystem)
	})

	t.Run("require means CommonJS", func(t *testing.T) {
		analysis := classify(t, "a.js", `const foo = require("./foo");`)
		assert.Equal(t, CommonJS, analysis.ModuleSystem)
	})

	t.Run("exports assignment means CommonJS", func(t *testing.T) {
		analysis := classify(t, "a.js", `exports.foo = 1;`)
		assert.Equal(t, CommonJS, analysis.ModuleSystem)
	})

	t.Run("module.exports access means CommonJS", func(t *testing.T) {
		analysis := classify(t, "a.js", `if (module.exports) { console.log("cjs"); }`)
		assert.Equal(t, CommonJS, analysis.ModuleSystem)
	})

	t.Run("both syntaxes mean Mixed", func(t *testing.T) {
		analysis := classify(t, "a.js", `
import foo from "./foo.js";
const bar = require("./bar");
`)
		assert.Equal(t, Mixed, analysis.ModuleSystem)
	})

	t.Run("no module syntax means Unknown", func(t *testing.T) {
		analysis := classify(t, "a.js", `const x = 1; console.log(x);`)
		assert.Equal(t, Unknown, analysis.ModuleSystem)
	})

	t.Run("dynamic import alone stays Unknown", func(t *testing.T) {
		analysis := classify(t, "a.js", `const m = import("./lazy.js");`)
		assert.Equal(t, Unknown, analysis.ModuleSystem)
	})
}

func TestClassifyImports(t *testing.T) {
	t.Run("default import", func(t *testing.T) {
		analysis := classify(t, "a.js", `import foo from "./foo.js";`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, "./foo.js", analysis.Imports[0].Source)
		assert.Equal(t, []string{"default"}, analysis.Imports[0].ImportedNames)
		assert.False(t, analysis.Imports[0].IsDynamic)
		assert.Equal(t, 1, analysis.Imports[0].Line)
	})

	t.Run("namespace import", func(t *testing.T) {
		analysis := classify(t, "a.js", `import * as utils from "./utils.js";`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, []string{"* as utils"}, analysis.Imports[0].ImportedNames)
	})

	t.Run("named imports record the source-side names", func(t *testing.T) {
		analysis := classify(t, "a.js", `import { one, two as alias } from "./pair.js";`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, []string{"one", "two"}, analysis.Imports[0].ImportedNames)
	})

	t.Run("mixed default and named", func(t *testing.T) {
		analysis := classify(t, "a.js", `import dflt, { named } from "./both.js";`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, []string{"default", "named"}, analysis.Imports[0].ImportedNames)
	})

	t.Run("type-only import is flagged", func(t *testing.T) {
		analysis := classify(t, "a.ts", `import type { Config } from "./config";`)
		require.Len(t, analysis.Imports, 1)
		assert.True(t, analysis.Imports[0].IsTypeOnly)
		assert.Equal(t, "./config", analysis.Imports[0].Source)
	})

	t.Run("require records a wildcard import", func(t *testing.T) {
		analysis := classify(t, "a.js", `const fs = require("fs");`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, "fs", analysis.Imports[0].Source)
		assert.Equal(t, []string{"*"}, analysis.Imports[0].ImportedNames)
	})

	t.Run("require with non-string argument records nothing", func(t *testing.T) {
		analysis := classify(t, "a.js", `const mod = require(dynamicName);`)
		assert.Equal(t, CommonJS, analysis.ModuleSystem)
		assert.Empty(t, analysis.Imports)
	})

	t.Run("dynamic import is flagged", func(t *testing.T) {
		analysis := classify(t, "a.js", `import("./lazy.js").then(m => m.run());`)
		require.Len(t, analysis.Imports, 1)
		assert.True(t, analysis.Imports[0].IsDynamic)
		assert.Equal(t, "./lazy.js", analysis.Imports[0].Source)
		assert.Equal(t, []string{"<dynamic>"}, analysis.Imports[0].ImportedNames)
	})

	t.Run("dynamic import with computed specifier uses a placeholder", func(t *testing.T) {
		analysis := classify(t, "a.js", "import(`./plugins/${name}.js`);")
		require.Len(t, analysis.Imports, 1)
		assert.True(t, analysis.Imports[0].IsDynamic)
		assert.Equal(t, "<dynamic>", analysis.Imports[0].Source)
	})

	t.Run("re-export star records an import edge", func(t *testing.T) {
		analysis := classify(t, "a.js", `export * from "./everything.js";`)
		require.Len(t, analysis.Imports, 1)
		assert.Equal(t, "./everything.js", analysis.Imports[0].Source)
		assert.Equal(t, []string{"*"}, analysis.Imports[0].ImportedNames)
		assert.Empty(t, analysis.Exports)
	})
}

func TestClassifyExports(t *testing.T) {
	t.Run("exported const", func(t *testing.T) {
		analysis := classify(t, "a.js", `export const answer = 42;`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "answer", analysis.Exports[0].Name)
		assert.Equal(t, KindVariable, analysis.Exports[0].Kind)
		assert.False(t, analysis.Exports[0].IsDefault)
	})

	t.Run("exported function", func(t *testing.T) {
		analysis := classify(t, "a.js", `export function run() {}`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "run", analysis.Exports[0].Name)
		assert.Equal(t, KindFunction, analysis.Exports[0].Kind)
	})

	t.Run("exported class", func(t *testing.T) {
		analysis := classify(t, "a.js", `export class Widget {}`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "Widget", analysis.Exports[0].Name)
		assert.Equal(t, KindClass, analysis.Exports[0].Kind)
	})

	t.Run("default function export", func(t *testing.T) {
		analysis := classify(t, "a.js", `export default function main() {}`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "default", analysis.Exports[0].Name)
		assert.True(t, analysis.Exports[0].IsDefault)
		assert.Equal(t, KindFunction, analysis.Exports[0].Kind)
	})

	t.Run("default expression export", func(t *testing.T) {
		analysis := classify(t, "a.js", `export default { key: "value" };`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "default", analysis.Exports[0].Name)
		assert.True(t, analysis.Exports[0].IsDefault)
	})

	t.Run("export clause records the public names", func(t *testing.T) {
		analysis := classify(t, "a.js", `
const internal = 1;
const other = 2;
export { internal as publicName, other };
`)
		require.Len(t, analysis.Exports, 2)
		assert.Equal(t, "publicName", analysis.Exports[0].Name)
		assert.Equal(t, "other", analysis.Exports[1].Name)
	})

	t.Run("typescript interface and type alias", func(t *testing.T) {
		analysis := classify(t, "a.ts", `
export interface Options { verbose: boolean }
export type Handler = (o: Options) => void;
`)
		require.Len(t, analysis.Exports, 2)
		assert.Equal(t, "Options", analysis.Exports[0].Name)
		assert.Equal(t, KindInterface, analysis.Exports[0].Kind)
		assert.Equal(t, "Handler", analysis.Exports[1].Name)
		assert.Equal(t, KindType, analysis.Exports[1].Kind)
	})

	t.Run("exports property assignment", func(t *testing.T) {
		analysis := classify(t, "a.js", `exports.helper = function () {};`)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "helper", analysis.Exports[0].Name)
	})

	t.Run("module.exports assignment records the property", func(t *testing.T) {
		analysis := classify(t, "a.js", `module.exports = { run };`)
		assert.Equal(t, CommonJS, analysis.ModuleSystem)
		require.Len(t, analysis.Exports, 1)
		assert.Equal(t, "exports", analysis.Exports[0].Name)
	})
}

func TestClassifyParseErrors(t *testing.T) {
	analysis := classify(t, "broken.js", `import { from "./nowhere";`)

	assert.True(t, analysis.HasErrors)
	assert.Equal(t, Unknown, analysis.ModuleSystem)
	assert.Empty(t, analysis.Imports)
	assert.Empty(t, analysis.Exports)
	assert.NotEmpty(t, analysis.ParseErrors)
}
