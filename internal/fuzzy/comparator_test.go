package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, IdentifierSimilarity("12345678", "12345678"))
	assert.Equal(t, 100.0, IdentifierSimilarity("20-12345678-1", "20123456781"))
	assert.Equal(t, 100.0, IdentifierSimilarity("mp 1234", "MP-1234"))
	assert.InDelta(t, 87.5, IdentifierSimilarity("12345678", "12345679"), 1e-9)
	assert.InDelta(t, 87.5, IdentifierSimilarity("1234567", "12345678"), 1e-9)
	assert.Equal(t, 0.0, IdentifierSimilarity("", "12345678"))
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, NameSimilarity("García López Juan Carlos", "GARCIA LOPEZ JUAN CARLOS"))
	assert.Equal(t, 100.0, NameSimilarity("Juan Carlos García López", "García López, Juan Carlos"))

	typo := NameSimilarity("Juan Perez", "Juan Peres")
	assert.Greater(t, typo, 85.0)
	assert.Less(t, typo, 100.0)

	assert.Less(t, NameSimilarity("Juan Perez", "María Gómez"), 40.0)
	assert.Equal(t, 0.0, NameSimilarity("", "Juan"))
}

func TestComparator_Compare(t *testing.T) {
	c := NewComparator(DefaultConfig())

	t.Run("exact identifier", func(t *testing.T) {
		res := c.Compare("DNI", "12345678", []string{"87654321", "12345678"}, IdentifierSimilarity)
		require.NotNil(t, res.Best)
		assert.Equal(t, "12345678", *res.Best)
		assert.Equal(t, 100.0, res.Score)
		assert.Equal(t, Exacta, res.Category)
		assert.Equal(t, "DNI", res.Field)
		assert.Equal(t, "12345678", res.Reference)
	})

	t.Run("punctuated CUIT", func(t *testing.T) {
		res := c.Compare("CUIT", "20-12345678-1", []string{"20123456781"}, IdentifierSimilarity)
		require.NotNil(t, res.Best)
		assert.Equal(t, 100.0, res.Score)
		assert.Equal(t, Exacta, res.Category)
	})

	t.Run("empty pool", func(t *testing.T) {
		res := c.Compare("CUIF", "123", nil, IdentifierSimilarity)
		assert.Nil(t, res.Best)
		assert.Equal(t, 0.0, res.Score)
		assert.Equal(t, Baja, res.Category)
	})

	t.Run("nothing above zero", func(t *testing.T) {
		res := c.Compare("DNI", "11111111", []string{"22222222"}, IdentifierSimilarity)
		assert.Nil(t, res.Best)
		assert.Equal(t, Baja, res.Category)
	})

	t.Run("tie prefers shorter then earlier", func(t *testing.T) {
		same := func(string, string) float64 { return 75 }
		res := c.Compare("nombre", "x", []string{"Juan Perez", "Ana Paz", "Eva Paz"}, same)
		require.NotNil(t, res.Best)
		assert.Equal(t, "Ana Paz", *res.Best)
		assert.Equal(t, Alta, res.Category)
	})

	t.Run("reordered name", func(t *testing.T) {
		res := c.Compare("nombre", "Juan Carlos García López",
			[]string{"Pedro Gómez", "García López Juan Carlos"}, NameSimilarity)
		require.NotNil(t, res.Best)
		assert.Equal(t, "García López Juan Carlos", *res.Best)
		assert.Equal(t, Exacta, res.Category)
	})
}
