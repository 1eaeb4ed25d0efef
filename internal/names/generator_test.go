package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func byOrigin(cands []Candidate, o Origin) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Origin == o {
			out = append(out, c)
		}
	}
	return out
}

func TestGenerator_Families(t *testing.T) {
	doc := NewDocument("autos PEREZ JUAN, contra María de los Ángeles Gómez. CARBALLO, MARTA SUSANA")
	got := NewGenerator(DefaultConfig()).Generate(doc)

	assert.Equal(t, []string{"Perez Juan", "Marta Susana"}, texts(byOrigin(got, OriginUpperRun)))
	assert.Contains(t, texts(byOrigin(got, OriginMixedCase)), "María de los Ángeles Gómez")
	assert.Contains(t, texts(byOrigin(got, OriginComma)), "Carballo Marta Susana")
}

func TestGenerator_UpperRunsAreChunked(t *testing.T) {
	doc := NewDocument("UNO DOS TRES CUATRO CINCO SEIS SIETE OCHO")
	got := byOrigin(NewGenerator(DefaultConfig()).Generate(doc), OriginUpperRun)
	assert.Equal(t, []string{"Uno Dos Tres Cuatro Cinco Seis", "Siete Ocho"}, texts(got))
}

func TestGenerator_SingleUppercaseWordIsNotARun(t *testing.T) {
	doc := NewDocument("el DNI fue exhibido")
	got := NewGenerator(DefaultConfig()).Generate(doc)
	assert.Empty(t, byOrigin(got, OriginUpperRun))
	assert.Empty(t, byOrigin(got, OriginComma))
}

func TestCommaAround(t *testing.T) {
	toks := Tokenize("UNO DOS TRES CUATRO, CINCO SEIS SIETE OCHO")
	from, to, ok := commaAround(toks, 4)
	assert.True(t, ok)
	assert.Equal(t, 1, from)
	assert.Equal(t, 7, to)

	_, _, ok = commaAround(Tokenize("hola, MUNDO"), 1)
	assert.False(t, ok)
}
