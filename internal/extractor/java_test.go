package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
)

const javaSource = `package com.acme;

import java.util.List;
import static org.junit.Assert.assertEquals;

/** Loads orders. */
@Service
public class OrderService extends Base implements Runnable, Closeable {
    private final String table = "orders";
    private int count;

    @Override
    public void run() {
        String q = "SELECT id FROM orders WHERE status = 'open'";
    }

    public List<Order> find(@Param("id") final long id, String... names) throws SQLException {
        return null;
    }
}
`

func TestExtractJava(t *testing.T) {
	out := extractSource(t, "src/OrderService.java", language.Java, javaSource)

	require.Equal(t, []string{"run", "find"}, functionNames(out.Functions))
	run := out.Functions[0]
	assert.Equal(t, "OrderService", run.Class)
	assert.Equal(t, []string{"Override"}, run.Decorators)
	assert.Equal(t, "void", run.ReturnType)
	assert.Equal(t, 13, run.Line)
	assert.Equal(t, []string{}, run.Params)

	find := out.Functions[1]
	assert.Equal(t, []string{"id", "names"}, find.Params)
	assert.Equal(t, "List<Order>", find.ReturnType)

	require.Len(t, out.Classes, 1)
	cls := out.Classes[0]
	assert.Equal(t, "OrderService", cls.Name)
	assert.Equal(t, []string{"Base", "Runnable", "Closeable"}, cls.Bases)
	assert.Equal(t, []string{"Service"}, cls.Decorators)
	assert.Equal(t, "Loads orders.", cls.Docstring)
	assert.Equal(t, []string{"run", "find"}, cls.Methods)
	assert.Equal(t, 8, cls.Line)

	var names []string
	for _, v := range out.Variables {
		names = append(names, v.Name)
		assert.Equal(t, "OrderService", v.Class)
	}
	assert.Equal(t, []string{"table", "count", "q"}, names)
	assert.Equal(t, model.TypeString, out.Variables[0].Type)
	assert.Equal(t, "String", out.Variables[0].DeclaredType)

	assert.Equal(t, []model.Import{
		{Source: "java.util.List", Name: "List", Kind: "import", Line: 3},
		{Source: "org.junit.Assert.assertEquals", Name: "assertEquals", Kind: "static", Line: 4},
	}, out.Imports)

	require.Len(t, out.SQL, 1)
	assert.Equal(t, 14, out.SQL[0].Location.Line)
}

func TestJavaParamNames(t *testing.T) {
	assert.Equal(t, []string{"m", "xs"}, javaParamNames("Map<String, Integer> m, int[] xs"))
	assert.Equal(t, []string{}, javaParamNames(""))
}
