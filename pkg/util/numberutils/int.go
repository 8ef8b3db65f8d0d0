package numberutils

import (
	"math"
	"strconv"
	"strings"
)

// ToIntWithDefault converts the given string to an integer.
// If the string is empty or cannot be converted, it returns the provided default value.
func ToIntWithDefault(s string, defaultVal int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return i
	}
	return defaultVal
}

// IsIntPositive checks if the given number is greater than zero.
func IsIntPositive(number int) bool {
	return number > 0
}

// CeilDiv returns ceil(dividend / divisor) for a non-negative dividend and a positive divisor.
// It returns 0 when divisor is not positive.
func CeilDiv(dividend int64, divisor int) int {
	if divisor <= 0 || dividend <= 0 {
		return 0
	}
	return int((dividend + int64(divisor) - 1) / int64(divisor))
}

// MulOverflows reports whether a*b exceeds math.MaxInt. Both operands must be non-negative.
func MulOverflows(a int, b int) bool {
	return b != 0 && a > math.MaxInt/b
}
