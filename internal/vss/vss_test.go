//go:build windows

package vss

import (
	"strings"
	"testing"
)

func TestFormatGUID(t *testing.T) {
	for _, s := range []string{
		"00000000-0000-0000-0000-000000000000",
		"e8132975-6f93-4464-a53e-1050253ae220",
		"ffffffff-ffff-ffff-ffff-ffffffffffff",
		"0b5a2c52-3eb9-470a-96e2-6c6d4570e40f",
	} {
		t.Run(s, func(t *testing.T) {
			got := FormatGUID(mustGUID(t, s))
			want := braced(s)
			if got != want {
				t.Fatalf("got %q, wanted %q", got, want)
			}
			if len(got) != 38 {
				t.Fatalf("got %d characters, wanted 38", len(got))
			}
			if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
				t.Fatalf("%q is not brace wrapped", got)
			}
		})
	}
}
