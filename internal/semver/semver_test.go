package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current string
		bump    string
		want    string
	}{
		{"empty current", "", "patch", "1.0.0"},
		{"empty current major", "", "major", "1.0.0"},
		{"patch bump", "1.2.3", "patch", "1.2.4"},
		{"minor bump", "1.2.3", "minor", "1.3.0"},
		{"major bump", "1.2.3", "major", "2.0.0"},
		{"unknown bump falls back to patch", "1.2.3", "huge", "1.2.4"},
		{"empty bump falls back to patch", "1.2.3", "", "1.2.4"},
		{"bump is case-insensitive", "1.2.3", "MAJOR", "2.0.0"},
		{"malformed current", "bad", "patch", "1.0.0"},
		{"two components", "1.2", "patch", "1.0.0"},
		{"four components", "1.2.3.4", "patch", "1.0.0"},
		{"negative component", "1.-2.3", "patch", "1.0.0"},
		{"large components", "10.20.30", "minor", "10.21.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.bump))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"less", "1.2.3", "1.2.4", -1},
		{"greater", "1.3.0", "1.2.9", 1},
		{"equal", "1.2.3", "1.2.3", 0},
		{"major wins", "2.0.0", "1.9.9", 1},
		{"malformed left", "bad", "1.0.0", 0},
		{"malformed right", "1.0.0", "bad", 0},
		{"shorter prefix compares equal", "1.2", "1.2.3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestCompareReflexive(t *testing.T) {
	for _, v := range []string{"0.0.0", "1.0.0", "1.2.3", "10.20.30"} {
		assert.Equal(t, 0, Compare(v, v))
	}
}
