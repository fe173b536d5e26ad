package schema_test

import (
	"testing"

	"db-respawn/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestTable_FullName(t *testing.T) {
	tests := []struct {
		table schema.Table
		quote string
		want  string
	}{
		{schema.Table{Schema: "dbo", Name: "orders"}, `"`, `"dbo"."orders"`},
		{schema.Table{Name: "orders"}, `"`, `"orders"`},
		{schema.Table{Schema: "shop", Name: "order_items"}, "`", "`shop`.`order_items`"},
		{schema.Table{Schema: "odd", Name: `we"ird`}, `"`, `"odd"."we""ird"`},
		{schema.Table{Schema: "public", Name: "a"}, "", "public.a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.table.FullName(tt.quote))
	}
}

func TestTable_String(t *testing.T) {
	assert.Equal(t, "dbo.A", schema.Table{Schema: "dbo", Name: "A"}.String())
	assert.Equal(t, "A", schema.Table{Name: "A"}.String())
}

func TestTable_Identity(t *testing.T) {
	assert.Equal(t, schema.Table{Schema: "dbo", Name: "A"}, schema.Table{Schema: "dbo", Name: "A"})
	assert.NotEqual(t, schema.Table{Schema: "dbo", Name: "A"}, schema.Table{Schema: "dbo", Name: "a"})
	assert.NotEqual(t, schema.Table{Schema: "dbo", Name: "A"}, schema.Table{Name: "A"})

	assert.True(t, schema.Table{Schema: "a", Name: "z"}.Less(schema.Table{Schema: "b", Name: "a"}))
	assert.True(t, schema.Table{Schema: "a", Name: "a"}.Less(schema.Table{Schema: "a", Name: "b"}))
	assert.False(t, schema.Table{Schema: "a", Name: "a"}.Less(schema.Table{Schema: "a", Name: "a"}))
}

func TestRelationship_Equal(t *testing.T) {
	a, b := dbo("A"), dbo("B")

	assert.True(t, schema.Relationship{Name: "fk", Parent: a, Referenced: b}.
		Equal(schema.Relationship{Name: "fk", Parent: b, Referenced: a}))
	assert.False(t, schema.Relationship{Name: "fk1", Parent: a, Referenced: b}.
		Equal(schema.Relationship{Name: "fk2", Parent: a, Referenced: b}))
}

func TestRelationship_String(t *testing.T) {
	r := schema.Relationship{Name: "fk_orders_customer", Parent: dbo("orders"), Referenced: dbo("customer")}
	assert.Equal(t, "dbo.orders -> dbo.customer [fk_orders_customer]", r.String())
	assert.False(t, r.IsSelfReference())
	assert.True(t, schema.Relationship{Parent: dbo("A"), Referenced: dbo("A")}.IsSelfReference())
}

func TestTemporalTable_Tables(t *testing.T) {
	tt := schema.TemporalTable{Schema: "dbo", Name: "Employee", HistorySchema: "history", HistoryName: "EmployeeHistory"}

	assert.Equal(t, schema.Table{Schema: "dbo", Name: "Employee"}, tt.Table())
	assert.Equal(t, schema.Table{Schema: "history", Name: "EmployeeHistory"}, tt.HistoryTable())
}

func TestScope_Empty(t *testing.T) {
	assert.True(t, schema.Scope{}.Empty())
	assert.False(t, schema.Scope{SchemasToInclude: []string{"dbo"}}.Empty())
	assert.False(t, schema.Scope{TablesToIgnore: []string{"audit"}}.Empty())
}
