package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Simple name", input: "Fresh Grocers", want: "fresh-grocers"},
		{name: "Already lowercase", input: "bazario", want: "bazario"},
		{name: "Special characters stripped", input: "Ravi's Electronics!", want: "ravis-electronics"},
		{name: "Separators collapse around stripped characters", input: "Fish & Chips", want: "fish-chips"},
		{name: "Multiple spaces collapsed", input: "The   Corner   Shop", want: "the-corner-shop"},
		{name: "Leading and trailing spaces", input: "  Spice Route  ", want: "spice-route"},
		{name: "Unicode letters preserved", input: "Café Mañana", want: "café-mañana"},
		{name: "Digits preserved", input: "Store 24x7", want: "store-24x7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
