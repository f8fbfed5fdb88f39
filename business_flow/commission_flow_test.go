package businessflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/numberkart/numberkart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewCommissionFlow(
			repository.NewCategoryCommissionRepository(testDB.DB),
			repository.NewPriceRangeCommissionRepository(testDB.DB),
			repository.NewCommissionSettingsRepository(testDB.DB),
			repository.NewPatternRepository(testDB.DB),
			repository.NewNumberRepository(testDB.DB),
			testDB.DB,
		)

		t.Run("SettingsDefaultOff", func(t *testing.T) {
			settings, err := flow.GetSettings(ctx)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(settings.ApplyToNewNumbers))
			assert.False(t, utils.IsTrue(settings.ApplyToExistingNumbers))
		})

		t.Run("UpdateSettingsToggles", func(t *testing.T) {
			settings, err := flow.UpdateSettings(ctx, &dto.UpdateCommissionSettingsRequest{
				ApplyToNewNumbers: utils.ToPtr(true),
			})
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(settings.ApplyToNewNumbers))
			assert.False(t, utils.IsTrue(settings.ApplyToExistingNumbers))

			// Partial update leaves the other toggle alone
			settings, err = flow.UpdateSettings(ctx, &dto.UpdateCommissionSettingsRequest{
				ApplyToNewNumbers: utils.ToPtr(false),
			})
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(settings.ApplyToNewNumbers))
		})

		t.Run("UpsertCreatesThenReplaces", func(t *testing.T) {
			pattern, err := fixtures.CreateTestPattern("")
			require.NoError(t, err)

			rule, err := flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  12.5,
			})
			require.NoError(t, err)
			assert.Equal(t, pattern.Pattern, rule.Pattern)
			assert.Equal(t, 12.5, rule.Commission)

			updated, err := flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  15,
			})
			require.NoError(t, err)
			assert.Equal(t, rule.UUID, updated.UUID)
			assert.Equal(t, float64(15), updated.Commission)

			rules, err := flow.ListCategoryCommissions(ctx)
			require.NoError(t, err)
			found := 0
			for _, r := range rules {
				if r.UUID == rule.UUID {
					found++
				}
			}
			assert.Equal(t, 1, found)
		})

		t.Run("UpsertUnknownPatternRejected", func(t *testing.T) {
			_, err := flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: uuid.New().String(),
				Commission:  5,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPatternNotFound(err))
		})

		t.Run("CommissionOutOfRangeRejected", func(t *testing.T) {
			pattern, err := fixtures.CreateTestPattern("")
			require.NoError(t, err)

			_, err = flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  150,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsCommissionOutOfRange(err))
		})

		t.Run("UpsertRepricesExistingWhenEnabled", func(t *testing.T) {
			vendor, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)
			pattern, err := fixtures.CreateTestPattern("")
			require.NoError(t, err)
			// Fixture sets purchase price to half the listed price
			number, err := fixtures.CreateTestNumber(vendor.ID, &pattern.ID, 80000, true)
			require.NoError(t, err)

			_, err = flow.UpdateSettings(ctx, &dto.UpdateCommissionSettingsRequest{
				ApplyToExistingNumbers: utils.ToPtr(true),
			})
			require.NoError(t, err)

			_, err = flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  10,
			})
			require.NoError(t, err)

			var reloaded models.Number
			require.NoError(t, testDB.DB.First(&reloaded, number.ID).Error)
			assert.Equal(t, int64(44000), reloaded.Price)

			_, err = flow.UpdateSettings(ctx, &dto.UpdateCommissionSettingsRequest{
				ApplyToExistingNumbers: utils.ToPtr(false),
			})
			require.NoError(t, err)
		})

		t.Run("UpsertLeavesExistingWhenDisabled", func(t *testing.T) {
			vendor, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)
			pattern, err := fixtures.CreateTestPattern("")
			require.NoError(t, err)
			number, err := fixtures.CreateTestNumber(vendor.ID, &pattern.ID, 80000, true)
			require.NoError(t, err)

			_, err = flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  10,
			})
			require.NoError(t, err)

			var reloaded models.Number
			require.NoError(t, testDB.DB.First(&reloaded, number.ID).Error)
			assert.Equal(t, int64(80000), reloaded.Price)
		})

		t.Run("DeleteCategoryCommission", func(t *testing.T) {
			pattern, err := fixtures.CreateTestPattern("")
			require.NoError(t, err)
			rule, err := flow.UpsertCategoryCommission(ctx, &dto.UpsertCategoryCommissionRequest{
				PatternUUID: pattern.UUID.String(),
				Commission:  7,
			})
			require.NoError(t, err)

			require.NoError(t, flow.DeleteCategoryCommission(ctx, rule.UUID))

			err = flow.DeleteCategoryCommission(ctx, rule.UUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsCommissionRuleNotFound(err))
		})

		t.Run("PriceRangeRules", func(t *testing.T) {
			low, err := flow.CreatePriceRangeCommission(ctx, &dto.CreatePriceRangeCommissionRequest{
				MinPrice:   0,
				MaxPrice:   50000,
				Commission: 8,
			})
			require.NoError(t, err)
			high, err := flow.CreatePriceRangeCommission(ctx, &dto.CreatePriceRangeCommissionRequest{
				MinPrice:   50001,
				MaxPrice:   500000,
				Commission: 5,
			})
			require.NoError(t, err)

			rules, err := flow.ListPriceRangeCommissions(ctx)
			require.NoError(t, err)
			require.Len(t, rules, 2)
			assert.Equal(t, low.UUID, rules[0].UUID)
			assert.Equal(t, high.UUID, rules[1].UUID)

			require.NoError(t, flow.DeletePriceRangeCommission(ctx, low.UUID))
			err = flow.DeletePriceRangeCommission(ctx, low.UUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsCommissionRuleNotFound(err))
		})

		t.Run("InvertedPriceRangeRejected", func(t *testing.T) {
			_, err := flow.CreatePriceRangeCommission(ctx, &dto.CreatePriceRangeCommissionRequest{
				MinPrice:   90000,
				MaxPrice:   10000,
				Commission: 5,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPriceRange(err))
		})

		return nil
	})
	require.NoError(t, err)
}
