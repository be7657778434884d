package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specweaver/internal/config"
	"specweaver/internal/diagnostic"
	"specweaver/internal/document"
	"specweaver/internal/entity"
	"specweaver/internal/registry"
)

const orderDoc = "# Orders\n\n```mermaid\nclassDiagram\n  class Order {\n    +owner: Customer\n  }\n```\n"

const customerDoc = "# Customers\n\n```mermaid\nclassDiagram\n  class Customer {\n    +name: string\n  }\n```\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DefaultPackage = "shop"
	cfg.Jobs = 2

	return cfg
}

func TestRunCrossDocumentReferenceEitherOrder(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
	}{
		{
			name:    "definition after reference",
			sources: []Source{{Path: "a.md", Text: orderDoc}, {Path: "b.md", Text: customerDoc}},
		},
		{
			name:    "definition before reference",
			sources: []Source{{Path: "a.md", Text: customerDoc}, {Path: "b.md", Text: orderDoc}},
		},
		{
			name:    "unsorted input",
			sources: []Source{{Path: "b.md", Text: customerDoc}, {Path: "a.md", Text: orderDoc}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), testConfig(), tt.sources, quietLogger())
			require.NoError(t, err)

			report := res.Report
			assert.Empty(t, report.Errors)
			assert.Empty(t, report.Unresolved)
			require.Len(t, report.Resolved, 1)

			row := report.Resolved[0]
			assert.Equal(t, "shop.Order", row.Owner)
			assert.Equal(t, "owner", row.Member)
			assert.Equal(t, "shop.Customer", row.Target)

			assert.Len(t, res.Entities, 2)
			assert.ErrorIs(t, res.Registry.Register(&entity.EntitySpec{FQN: "shop.Late"}), registry.ErrFrozen)
			assert.Equal(t, res.RunID.String(), report.RunID)
		})
	}
}

func TestRunClassesNamedLikeBuiltins(t *testing.T) {
	projects := "```mermaid\nclassDiagram\n" +
		"  class Order {\n    +total: Money\n  }\n" +
		"  class Project {\n    +tasks: Task[]\n  }\n" +
		"  class Task {\n    +title: string\n  }\n" +
		"```\n"
	money := "```mermaid\nclassDiagram\n  class Money {\n    +cents: long\n  }\n```\n"

	sources := []Source{{Path: "a.md", Text: projects}, {Path: "b.md", Text: money}}

	res, err := Run(context.Background(), testConfig(), sources, quietLogger())
	require.NoError(t, err)

	report := res.Report
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Unresolved)
	require.Len(t, report.Resolved, 1)
	assert.Equal(t, "shop.Order", report.Resolved[0].Owner)
	assert.Equal(t, "total", report.Resolved[0].Member)
	assert.Equal(t, "shop.Money", report.Resolved[0].Target)

	order, ok := res.Registry.Lookup("shop.Order")
	require.True(t, ok)
	assert.Equal(t, entity.CategoryCustom, order.Property("total").Category)

	project, ok := res.Registry.Lookup("shop.Project")
	require.True(t, ok)

	tasks := project.Property("tasks")
	require.NotNil(t, tasks)
	assert.Equal(t, entity.CategoryArray, tasks.Category)
	assert.Equal(t, []string{"shop.Task"}, tasks.References)
}

func TestRunUnresolved(t *testing.T) {
	doc := "```mermaid\nclassDiagram\n  class Order {\n    +owner: Ghost\n  }\n```\n"

	res, err := Run(context.Background(), testConfig(), []Source{{Path: "orders.md", Text: doc}}, quietLogger())
	require.NoError(t, err)

	report := res.Report
	assert.Empty(t, report.Resolved)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "Ghost", report.Unresolved[0].Target)
	assert.Equal(t, "orders.md", report.Unresolved[0].File)
	assert.Equal(t, 4, report.Unresolved[0].Line)

	assert.False(t, res.Failed(testConfig()))

	strict := testConfig()
	strict.FailOnUnresolved = true
	assert.True(t, res.Failed(strict))
}

func TestRunExternal(t *testing.T) {
	doc := "```mermaid\nclassDiagram\n  class Order {\n    +total: Currency\n    +clock: java.time.Clock\n  }\n```\n"

	cfg := testConfig()
	cfg.ExternalTypes = []string{"Currency"}
	cfg.ExternalPrefixes = []string{"java."}

	res, err := Run(context.Background(), cfg, []Source{{Path: "orders.md", Text: doc}}, quietLogger())
	require.NoError(t, err)

	assert.Empty(t, res.Report.Unresolved)
	require.Len(t, res.Report.External, 2)
	require.Len(t, res.Entities, 1)
	assert.ElementsMatch(t, []string{"Currency", "java.time.Clock"}, res.Entities[0].ExternalDependencies())
}

func TestRunDiagnostics(t *testing.T) {
	sources := []Source{
		{Path: "broken.md", Text: "```mermaid\nclassDiagram\n  class A {\n    +x: int\n```\n"},
		{Path: "prose.md", Text: "# Nothing here\n\njust prose\n"},
		{Path: "code.md", Text: "```go\npackage main\n```\n"},
	}

	res, err := Run(context.Background(), testConfig(), sources, quietLogger())
	require.NoError(t, err)

	report := res.Report
	require.Len(t, report.Errors, 1)
	assert.Equal(t, diagnostic.CodeParseError, report.Errors[0].Code)
	assert.Equal(t, "broken.md", report.Errors[0].Path)

	require.Len(t, report.Warnings, 2)
	assert.Equal(t, "code.md", report.Warnings[0].Path)
	assert.Equal(t, diagnostic.CodeNoDiagramBlocks, report.Warnings[0].Code)
	assert.Equal(t, "prose.md", report.Warnings[1].Path)
	assert.Equal(t, diagnostic.CodeNoCodeBlocks, report.Warnings[1].Code)

	assert.True(t, res.Failed(nil))
}

func TestRunDocumentSummaries(t *testing.T) {
	doc := orderDoc + "\n```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

	res, err := Run(context.Background(), testConfig(), []Source{{Path: "orders.md", Text: doc}}, quietLogger())
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)

	sum := res.Documents[0]
	assert.Equal(t, "orders.md", sum.Path)
	assert.Equal(t, len(doc), sum.Bytes)
	assert.Equal(t, 2, sum.Blocks)
	assert.Equal(t, map[document.DiagramKind]int{document.KindClass: 1, document.KindSequence: 1}, sum.Diagrams)
	assert.Equal(t, 1, sum.Tables)
	assert.Equal(t, 1, sum.Classes)
	assert.False(t, sum.Failed)
}

func TestRunEmpty(t *testing.T) {
	res, err := Run(context.Background(), nil, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Entities)
	assert.True(t, res.Report.IsClean())
	assert.Empty(t, res.Report.Resolved)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(), []Source{{Path: "a.md", Text: orderDoc}}, quietLogger())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunDeterministic(t *testing.T) {
	var sources []Source
	for _, name := range []string{"e.md", "c.md", "a.md", "d.md", "b.md"} {
		sources = append(sources, Source{Path: name, Text: "```mermaid\nclassDiagram\n  class " +
			"T" + name[:1] + " {\n    +peer: Missing\n  }\n```\n"})
	}

	first, err := Run(context.Background(), testConfig(), sources, quietLogger())
	require.NoError(t, err)

	second, err := Run(context.Background(), testConfig(), sources, quietLogger())
	require.NoError(t, err)

	fqns := func(r *Result) []string {
		var out []string
		for _, e := range r.Entities {
			out = append(out, e.FQN)
		}

		return out
	}

	assert.Equal(t, []string{"shop.Ta", "shop.Tb", "shop.Tc", "shop.Td", "shop.Te"}, fqns(first))
	assert.Equal(t, fqns(first), fqns(second))
	assert.Equal(t, first.Report.Unresolved, second.Report.Unresolved)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	files := map[string]string{
		"README.md":            "# readme",
		"notes.txt":            "plain",
		"docs/orders.md":       orderDoc,
		"docs/archive/old.md":  "# old",
		"docs/deep/nested.md":  customerDoc,
		"docs/deep/nested.txt": "plain",
	}

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	got, err := Discover(root, []string{"**/*.md"}, []string{"docs/archive/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs/deep/nested.md", "docs/orders.md"}, got)

	got, err = Discover(root, []string{"docs/*.md"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/orders.md"}, got)
}

func TestReadSources(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte(orderDoc), 0o600))

	sources, diags := ReadSources(root, []string{"a.md", "missing.md"})

	require.Len(t, sources, 1)
	assert.Equal(t, "a.md", sources[0].Path)
	assert.Equal(t, orderDoc, sources[0].Text)

	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeReadError, diags.Errors[0].Code)
	assert.Equal(t, "missing.md", diags.Errors[0].Path)
}

func TestRunDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "orders.md"), []byte(orderDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "customers.md"), []byte(customerDoc), 0o600))

	res, err := RunDir(context.Background(), root, testConfig(), quietLogger())
	require.NoError(t, err)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, "docs/customers.md", res.Documents[0].Path)
	assert.Len(t, res.Report.Resolved, 1)
	assert.True(t, res.Report.IsClean())
}
