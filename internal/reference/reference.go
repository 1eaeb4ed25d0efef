// Package reference reads the externally supplied reference data that the
// comparator checks against a document.
package reference

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed reference")

// Kind is the semantic kind of a field: a name, a specific identifier kind,
// or any identifier.
type Kind string

const (
	KindName       Kind = "nombre"
	KindIdentifier Kind = "identificador"
)

// IdentifierKind returns the identifier kind of k, if k names one.
func (k Kind) IdentifierKind() (identifier.Kind, bool) {
	for _, ik := range identifier.Kinds {
		if string(ik) == string(k) {
			return ik, true
		}
	}
	return "", false
}

// Field is one flattened reference value.
type Field struct {
	Name  string `json:"field"`
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
}

var nameKeys = []string{
	"nombre", "nombres", "apellido", "apellidos", "razon social", "denominacion",
	"titular", "actor", "actora", "demandado", "demandada", "persona", "contribuyente",
}

var bom = []byte("\xef\xbb\xbf")

// ParseFile reads and parses a reference file.
func ParseFile(path string) ([]Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}
	return Parse(data)
}

// Parse accepts a JSON object (nested objects and arrays are flattened into
// "key - subkey" and "key - N" fields) or plain "clave: valor" lines.
func Parse(data []byte) ([]Field, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, bom))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrMalformed)
	}
	if data[0] == '{' || data[0] == '[' {
		return parseJSON(data)
	}
	return parseText(data)
}

func parseJSON(data []byte) ([]Field, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	var fields []Field
	flatten(root, "", "", &fields)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no comparable values", ErrMalformed)
	}
	return fields, nil
}

func flatten(v gjson.Result, path, key string, out *[]Field) {
	switch {
	case v.IsObject():
		v.ForEach(func(k, child gjson.Result) bool {
			flatten(child, join(path, k.String()), k.String(), out)
			return true
		})
	case v.IsArray():
		i := 0
		v.ForEach(func(_, child gjson.Result) bool {
			i++
			flatten(child, join(path, strconv.Itoa(i)), key, out)
			return true
		})
	default:
		value := scalar(v)
		if value == "" || path == "" {
			return
		}
		*out = append(*out, Field{Name: path, Value: value, Kind: InferKind(key, value)})
	}
}

func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.Join(strings.Fields(v.Str), " ")
	case gjson.Number:
		return strings.TrimSpace(v.Raw)
	}
	return ""
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + " - " + key
}

func parseText(data []byte) ([]Field, error) {
	var fields []Field
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Join(strings.Fields(value), " ")
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, Field{Name: key, Value: value, Kind: InferKind(key, value)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: expected JSON or \"clave: valor\" lines", ErrMalformed)
	}
	return fields, nil
}

// InferKind guesses the kind of a field from its key, then from its value.
func InferKind(key, value string) Kind {
	k := fold.Clean(key)
	// "D.N.I." folds to "d n i"
	toks := append(strings.Fields(k), strings.ReplaceAll(k, " ", ""))
	for _, tok := range toks {
		switch tok {
		case "dni", "documento":
			return Kind(identifier.DNI)
		case "cuil":
			return Kind(identifier.CUIL)
		case "cuit":
			return Kind(identifier.CUIT)
		case "cuif":
			return Kind(identifier.CUIF)
		case "matricula":
			return Kind(identifier.Matricula)
		}
	}
	for _, nk := range nameKeys {
		if k == nk || strings.HasPrefix(k, nk+" ") || strings.HasSuffix(k, " "+nk) {
			return KindName
		}
	}
	if digitShaped(value) {
		return KindIdentifier
	}
	return KindName
}

func digitShaped(v string) bool {
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '-' || r == '/' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 4
}
