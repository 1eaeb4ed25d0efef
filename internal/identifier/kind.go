// Package identifier finds and validates labeled Argentine identity numbers
// (DNI, CUIL, CUIT, CUIF and professional registration numbers).
package identifier

import (
	"fmt"
	"strings"
)

// Kind names an identifier family. Values double as the canonical label in
// normalized text.
type Kind string

const (
	DNI       Kind = "DNI"
	CUIL      Kind = "CUIL"
	CUIT      Kind = "CUIT"
	CUIF      Kind = "CUIF"
	Matricula Kind = "MATRICULA"
)

// Kinds lists every identifier kind in report order.
var Kinds = []Kind{DNI, CUIL, CUIT, CUIF, Matricula}

// ParseKind accepts a kind name in any case, with or without accents.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DNI":
		return DNI, nil
	case "CUIL":
		return CUIL, nil
	case "CUIT":
		return CUIT, nil
	case "CUIF":
		return CUIF, nil
	case "MATRICULA", "MATRÍCULA":
		return Matricula, nil
	}
	return "", fmt.Errorf("unknown identifier kind %q", s)
}

// Lower returns the kind name as used in selective-extraction requests.
func (k Kind) Lower() string { return strings.ToLower(string(k)) }
