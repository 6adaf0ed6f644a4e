package utility

import (
	"strconv"
	"strings"
	"testing"
)

func channels(t *testing.T, color string) [3]uint64 {
	t.Helper()
	if len(color) != 7 || !strings.HasPrefix(color, "#") {
		t.Fatalf("RandomColorHex() = %q, want #rrggbb", color)
	}
	if strings.ToLower(color) != color {
		t.Fatalf("RandomColorHex() = %q, want lowercase hex", color)
	}
	var out [3]uint64
	for i := range out {
		v, err := strconv.ParseUint(color[1+2*i:3+2*i], 16, 8)
		if err != nil {
			t.Fatalf("parsing %q: %v", color, err)
		}
		out[i] = v
	}
	return out
}

func TestRandomColorHex_ChannelRange(t *testing.T) {
	for range 200 {
		color := RandomColorHex()
		for i, v := range channels(t, color) {
			if v < 4 || v > 251 {
				t.Errorf("channel %d of %q = %d, want 4..251", i, color, v)
			}
		}
	}
}

func TestRandomColorHex_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		seen[RandomColorHex()] = struct{}{}
	}
	// 248^3 possible colors; a handful of collisions in 50 draws means the
	// source is stuck.
	if len(seen) < 45 {
		t.Errorf("distinct colors = %d of 50, want at least 45", len(seen))
	}
}
