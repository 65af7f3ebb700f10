package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Property", "Cascades From")
	table.AddRow("DisplayName", "FirstName, LastName")
	table.AddRow("FirstName")

	table.Render()

	want := "" +
		"Property     Cascades From\n" +
		"───────────  ───────────────────\n" +
		"DisplayName  FirstName, LastName\n" +
		"FirstName    \n"
	assert.Equal(t, want, buf.String())
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("First", "Ada")
	kv.AddRow("Display", "Lovelace, Ada")

	kv.Render()

	assert.Equal(t, "First:   Ada\nDisplay: Lovelace, Ada\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Person", true)
	assert.Equal(t, "Person\n──────\n", buf.String())
}
