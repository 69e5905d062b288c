package hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/HIDRA/hid"
)

var allFlags = []hid.ConnectMask{
	hid.ConnectHIDInput,
	hid.ConnectHIDInputForce,
	hid.ConnectHIDRaw,
	hid.ConnectHIDDev,
	hid.ConnectHIDDevForce,
	hid.ConnectFF,
	hid.ConnectDriver,
}

func TestComposeEmpty(t *testing.T) {
	assert.Equal(t, hid.ConnectMask(0), hid.Compose(), "zero flags must compose to the inert empty mask")
}

func TestComposeOrderIndependent(t *testing.T) {
	tests := []struct {
		name  string
		flags []hid.ConnectMask
	}{
		{"two flags", []hid.ConnectMask{hid.ConnectHIDRaw, hid.ConnectFF}},
		{"three flags", []hid.ConnectMask{hid.ConnectHIDInput, hid.ConnectHIDRaw, hid.ConnectDriver}},
		{"all flags", allFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := hid.Compose(tt.flags...)
			// Rotate through every cyclic permutation; OR is commutative
			// and associative so all must agree.
			for shift := range tt.flags {
				perm := append(append([]hid.ConnectMask{}, tt.flags[shift:]...), tt.flags[:shift]...)
				assert.Equal(t, want, hid.Compose(perm...))
			}
			// Duplicates are idempotent.
			assert.Equal(t, want, hid.Compose(append(tt.flags, tt.flags...)...))
		})
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	// Every non-empty subset of the defined flags must decode back to
	// exactly the flags that were composed.
	for bits := 1; bits < 1<<len(allFlags); bits++ {
		var subset []hid.ConnectMask
		for i, f := range allFlags {
			if bits&(1<<i) != 0 {
				subset = append(subset, f)
			}
		}

		mask := hid.Compose(subset...)
		assert.Equal(t, subset, mask.Flags(), "subset %07b did not round-trip", bits)
		assert.Equal(t, mask, hid.Compose(mask.Flags()...))
	}
}

func TestMaskHas(t *testing.T) {
	m := hid.Compose(hid.ConnectHIDRaw, hid.ConnectFF)
	assert.True(t, m.Has(hid.ConnectHIDRaw))
	assert.True(t, m.Has(hid.ConnectFF))
	assert.False(t, m.Has(hid.ConnectHIDInput))
	assert.False(t, m.Has(hid.ConnectHIDDev))
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "none", hid.ConnectMask(0).String())
	assert.Equal(t, "hidraw", hid.ConnectHIDRaw.String())
	assert.Equal(t, "hidinput|ff", hid.Compose(hid.ConnectFF, hid.ConnectHIDInput).String())
}
