//go:build windows

package vss

import (
	"testing"

	"golang.org/x/sys/windows"
)

func TestHResultHex(t *testing.T) {
	hrBadState := uint32(VSS_E_BAD_STATE)
	for _, tc := range []struct {
		hr   int32
		want string
	}{
		{0, "0x00000000"},
		{2, "0x00000002"},
		{-1, "0xFFFFFFFF"},
		{-2147024809, "0x80070057"}, // E_INVALIDARG
		{int32(hrBadState), "0x80042301"},
		{int32(uint32(VSS_S_ASYNC_FINISHED)), "0x0004230A"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			got := HResultHex(tc.hr)
			if got != tc.want {
				t.Fatalf("got %q, wanted %q", got, tc.want)
			}
			if len(got) != 10 {
				t.Fatalf("got %d characters, wanted 10", len(got))
			}
		})
	}
}

func TestFailed(t *testing.T) {
	for _, tc := range []struct {
		hr   windows.Errno
		want bool
	}{
		{0, false}, // S_OK
		{VSS_S_ASYNC_PENDING, false},
		{VSS_S_ASYNC_FINISHED, false},
		{E_POINTER, true},
		{VSS_E_BAD_STATE, true},
		{VSS_E_WRITER_NOT_RESPONDING, true},
	} {
		if got := Failed(tc.hr); got != tc.want {
			t.Errorf("Failed(%s) = %t, wanted %t", errnoHex(tc.hr), got, tc.want)
		}
	}
}
