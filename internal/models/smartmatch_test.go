// internal/models/smartmatch_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVendorReliabilityProfile_HasOrders(t *testing.T) {
	tests := []struct {
		name    string
		profile VendorReliabilityProfile
		want    bool
	}{
		{"new vendor", VendorReliabilityProfile{}, false},
		{"attempted orders", VendorReliabilityProfile{TotalOrders: 4}, true},
		{"completed orders only", VendorReliabilityProfile{TotalCompletedOrders: 2}, true},
		{"fulfillment rate only", VendorReliabilityProfile{FulfillmentRate: 96}, true},
		{"neutral fallback", *NeutralProfile("biz-1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.HasOrders())
		})
	}
}
