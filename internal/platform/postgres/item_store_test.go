package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "denim jacket", "denim jacket"},
		{"percent escaped", "100% cotton", `100\% cotton`},
		{"underscore escaped", "v_neck", `v\_neck`},
		{"backslash escaped first", `a\%b`, `a\\\%b`},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLikePattern(tt.input))
		})
	}
}
