package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "garcia lopez", Fold("GARCÍA LÓPEZ"))
	assert.Equal(t, "senor munoz", Fold("Señor Muñoz"))
	assert.Equal(t, "", Fold(""))
}

func TestTokensAndKey(t *testing.T) {
	assert.Equal(t, []string{"carballo", "marta"}, Tokens("CARBALLO, Marta"))
	assert.Equal(t, Key("García López, Juan"), Key("JUAN GARCIA LOPEZ"))
	assert.NotEqual(t, Key("Juan García"), Key("Juan García López"))
	assert.Equal(t, "20 12345678 6", Clean("20-12345678-6"))
}

func TestSet(t *testing.T) {
	s := Set([]string{"Juzgado", " Cámara "}, []string{"tribunal", ""})
	assert.True(t, s["juzgado"])
	assert.True(t, s["camara"])
	assert.True(t, s["tribunal"])
	assert.Len(t, s, 3)
}
