package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclare_Indexes(t *testing.T) {
	meta := Declare(func(b *Builder) {
		b.Property("FirstName").Notifies("FormDisplayName")
		b.Property("DisplayName").CascadesFrom("FirstName", "MiddleName", "LastName")
		b.Property("Initials").CascadesFrom("FirstName")
		b.Command("CreateCommand").RequeryOn("FirstName", "LastName", "IsOperationInProgress")
	})

	assert.Equal(t, []string{"FirstName", "DisplayName", "Initials"}, meta.Properties())
	assert.Equal(t, []string{"CreateCommand"}, meta.Commands())
	assert.Equal(t, []string{"DisplayName", "Initials"}, meta.Dependents("FirstName"))
	assert.Equal(t, []string{"DisplayName"}, meta.Dependents("LastName"))
	assert.Equal(t, []string{"FormDisplayName"}, meta.Forced("FirstName"))
	assert.Equal(t, []string{"FirstName", "MiddleName", "LastName"}, meta.CascadeSources("DisplayName"))
	assert.Equal(t, []string{"CreateCommand"}, meta.RequeriedBy("IsOperationInProgress"))
	assert.Equal(t, []string{"FirstName", "LastName", "IsOperationInProgress"}, meta.RequeryTriggers("CreateCommand"))
	assert.Nil(t, meta.Dependents("Nothing"))
	assert.Nil(t, meta.RequeriedBy("MiddleName"))
}

func TestDeclare_MergesRepeatedDeclarations(t *testing.T) {
	meta := Declare(func(b *Builder) {
		b.Property("Label").CascadesFrom("A", "B")
		b.Property("Label").CascadesFrom("B", "C").CascadesFrom("A")
		b.Command("Run").RequeryOn("A", "A")
	})

	assert.Equal(t, []string{"A", "B", "C"}, meta.CascadeSources("Label"))
	assert.Equal(t, []string{"Label"}, meta.Dependents("A"))
	assert.Equal(t, []string{"A"}, meta.RequeryTriggers("Run"))
	assert.Equal(t, []string{"Label"}, meta.Properties())
}

func TestDeclare_NilBuilderFunc(t *testing.T) {
	meta := Declare(nil)
	assert.Empty(t, meta.Properties())
	assert.Empty(t, meta.Commands())
}

type declaredModel struct {
	Object
}

var declareCalls int

func (*declaredModel) DeclareProperties(b *Builder) {
	declareCalls++
	b.Property("Total").CascadesFrom("Price", "Quantity")
}

func TestFor_BuildsOncePerType(t *testing.T) {
	first := For(&declaredModel{})
	calls := declareCalls
	second := For(&declaredModel{})

	assert.Same(t, first, second)
	assert.Equal(t, calls, declareCalls)
	assert.Equal(t, []string{"Total"}, first.Dependents("Price"))
}

func TestMetadata_Lint(t *testing.T) {
	meta := Declare(func(b *Builder) {
		b.Property("DisplayName").CascadesFrom("FirstName", "LastNmae")
		b.Property("FirstName").Notifies("DisplayName")
		b.Command("Save").RequeryOn("IsBusy", "IsBsy")
	})

	issues := meta.Lint("LastName", "IsBusy")

	assert.Equal(t, []DeclarationIssue{
		{Declared: "DisplayName", Reference: "LastNmae", Kind: "cascades-from"},
		{Declared: "Save", Reference: "IsBsy", Kind: "requery-on"},
	}, issues)
	assert.Equal(t, `DisplayName cascades-from "LastNmae": no such property`, issues[0].String())
}

func TestMetadata_ClosureEmptyName(t *testing.T) {
	props, commands := personMetadata.Closure("", true)
	assert.Nil(t, props)
	assert.Nil(t, commands)
}
