package types

import "testing"

func TestFormatForVersion(t *testing.T) {
	tests := []struct {
		version uint32
		want    Format
		label   string
	}{
		{18, FormatReignOfChaos, "expansion not required"},
		{25, FormatFrozenThrone, "expansion required"},
		{28, FormatUnknown, "28"},
		{0, FormatUnknown, "0"},
	}

	for _, tt := range tests {
		if got := FormatForVersion(tt.version); got != tt.want {
			t.Errorf("FormatForVersion(%d) = %v, want %v", tt.version, got, tt.want)
		}
		if got := VersionLabel(tt.version); got != tt.label {
			t.Errorf("VersionLabel(%d) = %q, want %q", tt.version, got, tt.label)
		}
	}
}
