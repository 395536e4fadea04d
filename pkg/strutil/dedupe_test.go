package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"trims and drops empties", []string{"  foo ", "", "  "}, []string{"foo"}},
		{"dedupes preserving order", []string{"b", "a", "b", "a"}, []string{"b", "a"}},
		{"dedupes after trim", []string{" lunch", "lunch "}, []string{"lunch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}
