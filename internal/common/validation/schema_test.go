package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidateSchema = JSONSchema{
	Type:     "object",
	Required: []string{"businessId"},
	Properties: map[string]Property{
		"businessId": {Type: "string", MinLength: Int(1)},
		"premium":    {Type: "boolean"},
		"score":      {Type: "number", Minimum: Float(0), Maximum: Float(100)},
		"payment":    {Type: "string", Enum: []string{"card", "bank_transfer", "chat"}},
	},
}

func TestValidateInput(t *testing.T) {
	res := ValidateInput(map[string]interface{}{"businessId": "biz-1", "score": 42, "payment": "card"}, candidateSchema)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateInput_Errors(t *testing.T) {
	res := ValidateInput(map[string]interface{}{"score": 140, "payment": "cash", "premium": "yes"}, candidateSchema)
	require.False(t, res.Valid)

	assert.True(t, res.HasErrors("businessId") || res.HasErrors("(root)"))
	assert.True(t, res.HasErrors("score"))
	assert.True(t, res.HasErrors("payment"))
	assert.True(t, res.HasErrors("premium"))
	assert.Len(t, res.GetErrorMessages(), len(res.Errors))
}

func TestValidateInput_AdditionalProperties(t *testing.T) {
	strict := candidateSchema
	strict.AdditionalProperties = false
	res := ValidateInput(map[string]interface{}{"businessId": "b", "extra": 1}, strict)
	assert.False(t, res.Valid)

	loose := candidateSchema
	loose.AdditionalProperties = true
	res = ValidateInput(map[string]interface{}{"businessId": "b", "extra": 1}, loose)
	assert.True(t, res.Valid)
}
