package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Mobile string `validate:"required,mobile10"`
	Phone  string `validate:"omitempty,indianphone"`
	Ref    string `validate:"omitempty,objectid"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Mobile: "9876543210", Phone: "9876543210", Ref: "64b7f0c2a1b2c3d4e5f60718"}))

	err := v.Struct(sample{Mobile: "98765", Phone: "12345", Ref: "nope"})
	require.Error(t, err)
	details := map[string]string{}
	for _, fe := range v.ValidationErrors(err) {
		details[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"Mobile": "mobile10", "Phone": "indianphone", "Ref": "objectid"}, details)
}

func TestValidationErrorsNil(t *testing.T) {
	v := New()
	assert.Nil(t, v.ValidationErrors(nil))
}
