package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartnerSelector(t *testing.T) {
	t.Run("should create selector with default weights", func(t *testing.T) {
		_, err := services.NewPartnerSelector(services.DefaultPartnerWeights())

		require.NoError(t, err)
	})

	t.Run("should return error for negative weights", func(t *testing.T) {
		_, err := services.NewPartnerSelector(services.PartnerWeights{Rate: -0.5, Tat: 0.5})

		require.Error(t, err)
	})

	t.Run("should return error for all-zero weights", func(t *testing.T) {
		_, err := services.NewPartnerSelector(services.PartnerWeights{})

		require.Error(t, err)
	})
}

func TestPartnerSelector_Select(t *testing.T) {
	origin, _ := kernel.NewPincode("560001")
	destination, _ := kernel.NewPincode("110042")
	selector, err := services.NewPartnerSelector(services.DefaultPartnerWeights())
	require.NoError(t, err)

	newRequest := func(isCod bool) services.SelectionRequest {
		req := services.SelectionRequest{
			Origin:      origin,
			Destination: destination,
			WeightKg:    2,
		}
		if isCod {
			req.IsCod = true
			req.CodAmount = 1499
		}
		return req
	}

	newCapability := func(code string, supportsCod bool, baseRate, perKgRate float64, tatDays int) carrier.Capability {
		capability, err := carrier.NewCapability(code, supportsCod, baseRate, perKgRate, tatDays)
		require.NoError(t, err)
		return capability
	}

	t.Run("should recommend the cheapest carrier when speeds match", func(t *testing.T) {
		recommendation, err := selector.Select(newRequest(false), []carrier.Capability{
			newCapability("PRICEY", true, 100, 20, 2),
			newCapability("CHEAP", true, 40, 10, 2),
		})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "CHEAP", recommendation.Recommended.CarrierCode)
		assert.InDelta(t, 60.0, recommendation.Recommended.Rate, 0.001)
	})

	t.Run("should trade rate against speed by the configured weights", func(t *testing.T) {
		// With rate weighted 0.7 the cheap-but-slow carrier wins even though
		// the express one is three days faster.
		cheapSlow := newCapability("SLOW", true, 30, 5, 4)
		fastPricey := newCapability("FAST", true, 200, 40, 1)

		recommendation, err := selector.Select(newRequest(false),
			[]carrier.Capability{fastPricey, cheapSlow})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "SLOW", recommendation.Recommended.CarrierCode)

		speedFirst, err := services.NewPartnerSelector(services.PartnerWeights{Rate: 0.1, Tat: 0.9})
		require.NoError(t, err)
		recommendation, err = speedFirst.Select(newRequest(false),
			[]carrier.Capability{fastPricey, cheapSlow})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "FAST", recommendation.Recommended.CarrierCode)
	})

	t.Run("should reject carriers without COD support for COD shipments", func(t *testing.T) {
		recommendation, err := selector.Select(newRequest(true), []carrier.Capability{
			newCapability("NOCOD", false, 20, 5, 2),
			newCapability("WITHCOD", true, 60, 15, 2),
		})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "WITHCOD", recommendation.Recommended.CarrierCode)
		require.Len(t, recommendation.Rejected, 1)
		assert.Equal(t, "NOCOD", recommendation.Rejected[0].CarrierCode)
		assert.Equal(t, services.RejectionCodUnsupported, recommendation.Rejected[0].Reason)
	})

	t.Run("should return nil recommendation when every carrier is rejected", func(t *testing.T) {
		recommendation, err := selector.Select(newRequest(true), []carrier.Capability{
			newCapability("NOCOD-A", false, 20, 5, 2),
			newCapability("NOCOD-B", false, 30, 8, 3),
		})

		require.NoError(t, err)
		assert.Nil(t, recommendation.Recommended)
		assert.Len(t, recommendation.Rejected, 2)
	})

	t.Run("should return nil recommendation for no candidates", func(t *testing.T) {
		recommendation, err := selector.Select(newRequest(false), nil)

		require.NoError(t, err)
		assert.Nil(t, recommendation.Recommended)
		assert.Empty(t, recommendation.Rejected)
	})

	t.Run("should break score ties by lower transit time", func(t *testing.T) {
		// Same rate, same-score construction: equal rates and a selector that
		// ignores speed, so the scores tie exactly.
		rateOnly, err := services.NewPartnerSelector(services.PartnerWeights{Rate: 1, Tat: 0})
		require.NoError(t, err)

		recommendation, err := rateOnly.Select(newRequest(false), []carrier.Capability{
			newCapability("SLOWER", true, 40, 10, 3),
			newCapability("FASTER", true, 40, 10, 2),
		})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "FASTER", recommendation.Recommended.CarrierCode)
	})

	t.Run("should break full ties by carrier code", func(t *testing.T) {
		recommendation, err := selector.Select(newRequest(false), []carrier.Capability{
			newCapability("ZETA", true, 40, 10, 2),
			newCapability("ALPHA", true, 40, 10, 2),
		})

		require.NoError(t, err)
		require.NotNil(t, recommendation.Recommended)
		assert.Equal(t, "ALPHA", recommendation.Recommended.CarrierCode)
	})

	t.Run("should return error for non-positive weight", func(t *testing.T) {
		req := newRequest(false)
		req.WeightKg = 0

		_, err := selector.Select(req, nil)

		require.Error(t, err)
	})

	t.Run("should return error for COD shipment without amount", func(t *testing.T) {
		req := newRequest(false)
		req.IsCod = true

		_, err := selector.Select(req, nil)

		require.Error(t, err)
	})
}
