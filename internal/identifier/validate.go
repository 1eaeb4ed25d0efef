package identifier

import "strings"

// Reason explains why an identifier failed validation.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonLength   Reason = "length"
	ReasonPrefix   Reason = "prefix"
	ReasonChecksum Reason = "checksum"
	ReasonCharset  Reason = "charset"
)

// Message is the user-facing description used in reports.
func (r Reason) Message() string {
	switch r {
	case ReasonLength:
		return "Longitud inválida"
	case ReasonPrefix:
		return "Prefijo inválido"
	case ReasonChecksum:
		return "Dígito verificador incorrecto"
	case ReasonCharset:
		return "Caracteres inválidos"
	default:
		return ""
	}
}

var (
	cuilPrefixes = map[string]bool{"20": true, "23": true, "24": true, "27": true}
	cuitPrefixes = map[string]bool{"20": true, "23": true, "24": true, "27": true, "30": true, "33": true, "34": true}
)

// Validation is the outcome of Validate.
type Validation struct {
	Value  string `json:"valor"`
	Valid  bool   `json:"valido"`
	Reason Reason `json:"motivo,omitempty"`
}

// Validate checks value against the rules for kind. Separators (".", "-",
// "/" and spaces) are ignored for numeric kinds; a professional registration
// must be plain alphanumeric.
func Validate(kind Kind, value string) Validation {
	if kind == Matricula {
		return validateMatricula(value)
	}
	digits := stripSeparators(value)
	if digits == "" || !allDigits(digits) {
		return Validation{Value: digits, Reason: ReasonCharset}
	}
	switch kind {
	case DNI:
		return lengthBetween(digits, 7, 8)
	case CUIF:
		return lengthBetween(digits, 1, 10)
	case CUIL:
		return validateTaxID(digits, cuilPrefixes)
	case CUIT:
		return validateTaxID(digits, cuitPrefixes)
	}
	return Validation{Value: digits, Reason: ReasonCharset}
}

func validateTaxID(digits string, prefixes map[string]bool) Validation {
	if len(digits) != 11 {
		return Validation{Value: digits, Reason: ReasonLength}
	}
	if !prefixes[digits[:2]] {
		return Validation{Value: digits, Reason: ReasonPrefix}
	}
	want, err := CheckDigit(digits[:10])
	if err != nil || int(digits[10]-'0') != want {
		return Validation{Value: digits, Reason: ReasonChecksum}
	}
	return Validation{Value: digits, Valid: true}
}

func validateMatricula(value string) Validation {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" || len(v) > 10 {
		return Validation{Value: v, Reason: ReasonLength}
	}
	for _, r := range v {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'Z') {
			return Validation{Value: v, Reason: ReasonCharset}
		}
	}
	return Validation{Value: v, Valid: true}
}

func lengthBetween(digits string, lo, hi int) Validation {
	if len(digits) < lo || len(digits) > hi {
		return Validation{Value: digits, Reason: ReasonLength}
	}
	return Validation{Value: digits, Valid: true}
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
