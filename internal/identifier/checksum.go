package identifier

import "fmt"

var checkWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// CheckDigit derives the mod-11 verification digit for the first ten digits
// of a CUIL/CUIT.
func CheckDigit(digits string) (int, error) {
	if len(digits) != len(checkWeights) {
		return 0, fmt.Errorf("check digit needs %d digits, got %d", len(checkWeights), len(digits))
	}
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := digits[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("non-digit %q at position %d", d, i)
		}
		sum += int(d-'0') * checkWeights[i]
	}
	switch raw := 11 - sum%11; raw {
	case 11:
		return 0, nil
	case 10:
		return 9, nil
	default:
		return raw, nil
	}
}
