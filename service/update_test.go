package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = KeySchema{PartitionKey: "partitionKey", SortKey: "sortKey"}

func TestUpdate_SetKeepsLastValuePerPath(t *testing.T) {
	update := NewUpdate().
		Set("name", "first").
		Set("description", "text").
		Set("name", "second")

	assert.Equal(t, 2, update.Len())
	assert.Equal(t, []string{"name", "description"}, update.Paths())
	assert.Equal(t, "second", update.assignments[0].value)
}

func TestUpdate_BuildRendersSetAndCondition(t *testing.T) {
	expr, err := NewUpdate().
		RequireExists().
		Set("name", "Item 1").
		Set("numericAttribute", 100.5).
		SetPath("Hola mundo", "translations", "es").
		Build(testSchema)
	require.NoError(t, err)

	require.NotNil(t, expr.Update())
	assert.Contains(t, *expr.Update(), "SET")
	require.NotNil(t, expr.Condition())
	assert.Contains(t, *expr.Condition(), "attribute_exists")

	names := make([]string, 0, len(expr.Names()))
	for _, name := range expr.Names() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"name", "numericAttribute", "translations", "es", "partitionKey"}, names)
	assert.Len(t, expr.Values(), 3)
}

func TestUpdate_BuildWithoutConditions(t *testing.T) {
	expr, err := NewUpdate().Set("name", "x").Build(testSchema)
	require.NoError(t, err)

	assert.Nil(t, expr.Condition())
}

func TestUpdate_BuildCombinesConditions(t *testing.T) {
	expr, err := NewUpdate().
		RequireExists().
		RequireAbsent("translations").
		Set("translations", map[string]string{"fr": "Bonjour"}).
		Build(testSchema)
	require.NoError(t, err)

	require.NotNil(t, expr.Condition())
	assert.Contains(t, *expr.Condition(), "attribute_exists")
	assert.Contains(t, *expr.Condition(), "attribute_not_exists")
	assert.Contains(t, *expr.Condition(), "AND")
}

func TestUpdate_BuildRejectsInvalidUpdates(t *testing.T) {
	tests := []struct {
		name   string
		update *Update
	}{
		{name: "empty", update: NewUpdate()},
		{name: "dotted element", update: NewUpdate().SetPath("x", "translations", "zh.TW")},
		{name: "empty element", update: NewUpdate().SetPath("x", "translations", "")},
		{name: "index element", update: NewUpdate().Set("list[0]", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.update.Build(testSchema)
			assert.ErrorIs(t, err, ErrInvalidUpdate)
		})
	}
}
