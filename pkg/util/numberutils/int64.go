package numberutils

import (
	"strconv"
)

// ToInt64WithError parses a base-10 int64. Unlike ToIntWithDefault it does not trim, so " 1" fails.
func ToInt64WithError(str string) (int64, error) {
	return strconv.ParseInt(str, 10, 64)
}

// FormatInt64 is the inverse of ToInt64WithError.
func FormatInt64(number int64) string {
	return strconv.FormatInt(number, 10)
}
