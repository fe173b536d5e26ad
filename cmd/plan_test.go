package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"db-respawn/internal/engine"
	"db-respawn/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func samplePlan() *engine.Plan {
	orders := schema.Table{Schema: "public", Name: "orders"}
	customers := schema.Table{Schema: "public", Name: "customers"}
	return &engine.Plan{
		Dialect:  "postgres",
		Database: "shop",
		Graph: &schema.Graph{
			ToDelete: []schema.Table{orders, customers},
			CyclicRelationships: []schema.Relationship{
				{Name: "fk_customer_last_order", Parent: customers, Referenced: orders},
			},
		},
		DeleteCommands: []string{`TRUNCATE TABLE "public"."orders", "public"."customers" CASCADE`},
	}
}

func TestWritePlan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "text"))

	out := buf.String()
	assert.Contains(t, out, "Database: shop (postgres)")
	assert.Contains(t, out, "  1. public.orders\n")
	assert.Contains(t, out, "  2. public.customers\n")
	assert.Contains(t, out, "public.customers -> public.orders [fk_customer_last_order]")
	assert.Contains(t, out, `TRUNCATE TABLE "public"."orders", "public"."customers" CASCADE;`)
	assert.NotContains(t, out, "Temporal tables")
}

func TestWritePlan_TextKeepsBlockTerminator(t *testing.T) {
	p := samplePlan()
	p.ReseedCommands = []string{"BEGIN\n    NULL;\nEND;"}

	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, p, "text"))

	out := buf.String()
	assert.Contains(t, out, "END;\n")
	assert.NotContains(t, out, "END;;")
	assert.Contains(t, out, "CASCADE;\n")
}

func TestWritePlan_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "yaml"))

	var v planView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, []string{"public.orders", "public.customers"}, v.DeletionOrder)
	assert.Len(t, v.CyclicRelationships, 1)
	assert.Len(t, v.Statements, 1)
}

func TestWritePlan_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, samplePlan(), "json"))

	var v planView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, "shop", v.Database)
	assert.NotContains(t, buf.String(), "temporal_tables")
}

func TestWritePlan_UnknownFormat(t *testing.T) {
	err := writePlan(&bytes.Buffer{}, samplePlan(), "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}
