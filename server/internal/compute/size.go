package compute

import (
	"math"
	"strconv"
	"strings"
)

// DefaultSize is the element count used when the request does not name a
// usable one.
const DefaultSize = 10_000_000

// ResolveSize converts a raw size parameter into an element count. An empty
// string means the parameter was absent. A single leading '+' is allowed.
// Anything else that is not a non-negative base-10 integer representable as
// an int resolves to DefaultSize.
func ResolveSize(raw string) int {
	digits := strings.TrimPrefix(raw, "+")
	if digits == "" {
		return DefaultSize
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > math.MaxInt {
		return DefaultSize
	}
	return int(n)
}
