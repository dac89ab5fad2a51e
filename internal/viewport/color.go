package viewport

import (
	"strconv"
	"strings"
)

// fallbackColor is used for colors that do not parse.
var fallbackColor = [3]float32{0.5, 0.5, 0.5}

// ParseColor converts #rrggbb or #rgb into linear 0..1 components.
func ParseColor(hex string) ([3]float32, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallbackColor, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallbackColor, false
	}
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, true
}
