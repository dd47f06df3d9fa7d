package domain

import "testing"

func TestZoneForPostalCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want Zone
	}{
		{"75011", ZoneParis},
		{"75000", ZoneParis},
		{"92100", ZoneNear},
		{"93200", ZoneNear},
		{"94300", ZoneNear},
		{"77100", ZoneFar},
		{"78000", ZoneFar},
		{"91400", ZoneFar},
		{"95880", ZoneFar},
		{"69001", ZonePickup},
		{"13001", ZonePickup},
		{"", ZonePickup},
		{"750", ZonePickup},
		{"7501a", ZonePickup},
		{" 75011 ", ZoneParis},
	}
	for _, tc := range cases {
		if got := ZoneForPostalCode(tc.code); got != tc.want {
			t.Fatalf("ZoneForPostalCode(%q) = %s, want %s", tc.code, got, tc.want)
		}
	}
}
