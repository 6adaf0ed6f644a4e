package utility

import (
	"fmt"
	"math/rand/v2"
)

// RandomColorHex returns a #rrggbb color whose channels stay away from the
// extremes so it reads on both light and dark backgrounds.
func RandomColorHex() string {
	r := 4 + rand.IntN(248)
	g := 4 + rand.IntN(248)
	b := 4 + rand.IntN(248)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
