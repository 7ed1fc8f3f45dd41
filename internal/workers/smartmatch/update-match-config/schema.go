// internal/workers/smartmatch/update-match-config/schema.go
package updatematchconfig

import "smartmatch-workers/internal/common/validation"

func weightProperty(desc string) validation.Property {
	return validation.Property{
		Type:        "number",
		Description: desc,
		Minimum:     validation.Float(0),
		Maximum:     validation.Float(100),
	}
}

// partialConfigSchema accepts any non-empty subset of the config document.
// Ranges here only reject nonsense; tighter clamping happens on read.
var partialConfigSchema = validation.JSONSchema{
	Type:                 "object",
	AdditionalProperties: false,
	MinProperties:        validation.Int(1),
	Properties: map[string]validation.Property{
		"enabled": {Type: "boolean", Description: "Master switch for smart match ranking"},
		"weights": {
			Type:                 "object",
			Description:          "Per-factor weights",
			AdditionalProperties: validation.Bool(false),
			Properties: map[string]validation.Property{
				"location":      weightProperty("Location weight"),
				"delivery":      weightProperty("Delivery weight"),
				"reliability":   weightProperty("Reliability weight"),
				"paymentFit":    weightProperty("Payment fit weight"),
				"vendorQuality": weightProperty("Vendor quality weight"),
				"buyerHistory":  weightProperty("Buyer history weight"),
			},
		},
		"hideThreshold":     {Type: "number", Minimum: validation.Float(0), Maximum: validation.Float(100)},
		"premiumBonus":      {Type: "number", Minimum: validation.Float(0), Maximum: validation.Float(100)},
		"premiumMinScore":   {Type: "number", Minimum: validation.Float(0), Maximum: validation.Float(100)},
		"profileCacheTtlMs": {Type: "number", Minimum: validation.Float(0)},
		"scoreCacheTtlMs":   {Type: "number", Minimum: validation.Float(0)},
	},
}
