package call

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		phone     string
		wantField string
	}{
		{"valid", "Alice", "+14155552671", ""},
		{"empty name", "", "+14155552671", "name"},
		{"whitespace name", "   ", "+14155552671", "name"},
		{"missing plus one", "Alice", "4155552671", "phone_number"},
		{"nine digits", "Alice", "+1415555267", "phone_number"},
		{"eleven digits", "Alice", "+141555526712", "phone_number"},
		{"letters in number", "Alice", "+1415555267a", "phone_number"},
		{"wrong country code", "Alice", "+441555526712", "phone_number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.userName, tt.phone)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateNameCheckedFirst(t *testing.T) {
	var vErr *ValidationError
	require.ErrorAs(t, Validate("", "bogus"), &vErr)
	assert.Equal(t, "name", vErr.Field)
}
