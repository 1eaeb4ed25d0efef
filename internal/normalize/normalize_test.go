package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace runs", "  hola \n\t mundo  ", "hola mundo"},
		{"dotted DNI with ordinal", "D.N.I. N° 12.345.678", "DNI 12345678"},
		{"long label with masculine ordinal", "Documento Nacional de Identidad Nº 30.123.456", "DNI 30123456"},
		{"label noise and hyphens", "C.U.I.T. NS 20-32177763-6", "CUIT 20321777636"},
		{"lowercase labels", "dni 12345678 cuil 20-12345678-6", "DNI 12345678 CUIL 20123456786"},
		{"label colon", "DNI: 12345678", "DNI 12345678"},
		{"bracketed number", "CUIL (20123456786)", "CUIL 20123456786"},
		{"professional registration", "M.P. 4567", "MATRICULA 4567"},
		{"professional registration without dot", "M.P 4567", "MATRICULA 4567"},
		{"professional registration glued", "M.P.4567", "MATRICULA 4567"},
		{"middle initial before P surname", "la señora María M. Pérez, DNI 12.345.678, comparece", "la señora María M. Pérez, DNI 12345678, comparece"},
		{"middle initial before short P surname", "Juan M. Paz", "Juan M. Paz"},
		{"glued initial before P surname", "Ana M.Pérez", "Ana M.Pérez"},
		{"accented matricula", "matrícula 4567", "MATRICULA 4567"},
		{"nro marker", "CUIF Nro. 1234", "CUIF 1234"},
		{"dates are kept", "Fecha 12/05/2020", "Fecha 12/05/2020"},
		{"short runs are kept", "monto 1.5", "monto 1.5"},
		{"scanner watermark and bullets", "• Escaneado con CamScanner texto", "texto"},
		{"dash folding", "DNI 12345678 — CUIL 20–12345678–6", "DNI 12345678 - CUIL 20123456786"},
		{"spaced cuit", "CUIT 20 - 32177763 - 6", "CUIT 20321777636"},
		{
			"accented names survive",
			"ciudadano GARCÍA LÓPEZ JUAN CARLOS DNI 12345678 CUIL 20-12345678-1",
			"ciudadano GARCÍA LÓPEZ JUAN CARLOS DNI 12345678 CUIL 20123456781",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestPages(t *testing.T) {
	got := Pages([]string{"ciudadano GARCÍA\n", "  DNI 12.345.678"})
	assert.Equal(t, "ciudadano GARCÍA DNI 12345678", got)
	assert.Equal(t, "", Pages(nil))
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"D.N.I. N° 12.345.678",
		"C.U.I.T. NS 20-32177763-6 y N° (1234)",
		"El Sr. Juan Pérez, Documento Nº 30.123.456, Matrícula M.P. 12/3",
		"Expte. N° 123/2021 caratulados GOMEZ, ANA C/ BANCO NACION S/ AMPARO",
		"   tabs\tand spaces  ",
		"DNI - 12345678 -- CUIL: 27-12345678-0",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}
