package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videopromo/videopromo-backend/internal/domain"
)

func TestPricing_Price(t *testing.T) {
	plan := &domain.Plan{Code: "pack-30", ImagesCount: 30, VideosCount: 30}

	t.Run("Success", func(t *testing.T) {
		pricing := testPricing()

		priceRub, costRub, err := pricing.Price(plan)
		require.NoError(t, err)
		// 30*10 + 30*20 + 500 = 1400, цена с множителем 2.0
		assert.Equal(t, 1400, costRub)
		assert.Equal(t, 2800, priceRub)
	})

	t.Run("Fractional cost rounds up", func(t *testing.T) {
		pricing := NewPricing(PricingConfig{
			CostImageRub:       floatPtr(0.7),
			CostVideoRub:       floatPtr(1.3),
			CostTrainingRub:    floatPtr(0),
			MinPriceMultiplier: 1.5,
		})

		priceRub, costRub, err := pricing.Price(&domain.Plan{ImagesCount: 1, VideosCount: 1})
		require.NoError(t, err)
		// себестоимость 2.0, цена 3.0
		assert.Equal(t, 2, costRub)
		assert.Equal(t, 3, priceRub)
	})

	t.Run("Missing cost config", func(t *testing.T) {
		pricing := NewPricing(PricingConfig{
			CostImageRub:       floatPtr(10),
			MinPriceMultiplier: 2.0,
		})

		_, _, err := pricing.Price(plan)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}

func TestPricing_Variants(t *testing.T) {
	plan := &domain.Plan{Code: "pack-30", ImagesCount: 30, VideosCount: 30}

	t.Run("First order includes training", func(t *testing.T) {
		pricing := testPricing()

		firstRub, repeatRub, err := pricing.Variants(plan)
		require.NoError(t, err)
		assert.Equal(t, 2800, firstRub)
		// без обучения: (30*10 + 30*20) * 2.0
		assert.Equal(t, 1800, repeatRub)
	})

	t.Run("Missing cost config", func(t *testing.T) {
		pricing := NewPricing(PricingConfig{MinPriceMultiplier: 2.0})

		_, _, err := pricing.Variants(plan)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}

func TestEncodeAmountRub(t *testing.T) {
	assert.Equal(t, "2800.00", EncodeAmountRub(2800))
	assert.Equal(t, "1.00", EncodeAmountRub(1))
	assert.Equal(t, "0.00", EncodeAmountRub(0))
}
