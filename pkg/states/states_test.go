package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"New York", "NY"},
		{"new york", "NY"},
		{"PENNSYLVANIA", "PA"},
		{"ny", "NY"},
		{"Pa", "PA"},
		{"District of Columbia", "DC"},
		{" california ", "CA"},
		{"Narnia", "NARNIA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}
