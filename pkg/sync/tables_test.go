package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesDependencyOrder(t *testing.T) {
	t.Parallel()

	position := map[string]int{}
	for i, table := range Tables() {
		position[table.Name] = i
	}

	for _, table := range Tables() {
		for _, dep := range table.DependsOn {
			assert.Less(t, position[dep], position[table.Name],
				"%s must come after %s", table.Name, dep)
		}
	}
}

func TestTablesIncludesAllDomainTables(t *testing.T) {
	t.Parallel()

	names := map[string]bool{}
	for _, table := range Tables() {
		names[table.Name] = true
	}

	for _, want := range []string{"users", "patients", "suppliers", "drugs", "prescriptions", "sales", "sale_items"} {
		assert.True(t, names[want], "missing table %s", want)
	}
}

func TestOrderIndexUnknownTableSortsLast(t *testing.T) {
	t.Parallel()

	last := orderIndex("no_such_table")
	for _, table := range Tables() {
		assert.Less(t, orderIndex(table.Name), last)
	}
}

func TestTableByName(t *testing.T) {
	t.Parallel()

	table, ok := tableByName("drugs")
	require.True(t, ok)
	assert.Equal(t, "drug_id", table.PrimaryKey)
	assert.Contains(t, table.DependsOn, "suppliers")

	_, ok = tableByName("visits")
	assert.False(t, ok)
}

func TestTopoSortStable(t *testing.T) {
	t.Parallel()

	// Users and patients have no dependencies, so they keep declaration order.
	first := topoSort(registry)
	second := topoSort(registry)
	require.Equal(t, first, second)

	assert.Equal(t, "users", first[0].Name)
	assert.Equal(t, "patients", first[1].Name)
	assert.Equal(t, "sale_items", first[len(first)-1].Name)
}
