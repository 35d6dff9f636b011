//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/testhelpers"
)

func setupRecordRepoTest(t *testing.T) (context.Context, FinancialRecordRepository, uuid.UUID) {
	t.Helper()

	testDB := testhelpers.GetTestDB(t)
	testDB.TruncateAll(t)

	ctx := context.Background()
	company, err := NewCompanyRepository(testDB.DB).Create(ctx, "Subject", nil)
	require.NoError(t, err)

	return ctx, NewFinancialRecordRepository(testDB.DB), company.ID
}

func TestFinancialRecordRepository_UpsertInsert(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	record, err := repo.Upsert(ctx, models.RecordNetworth, companyID, 1250000.50, 2023, "https://src.test/a")
	require.NoError(t, err)
	assert.Equal(t, companyID, record.CompanyID)
	assert.Equal(t, models.RecordNetworth, record.Kind)
	assert.Equal(t, 1250000.50, record.Value)
	assert.Equal(t, 2023, record.Year)
	assert.Equal(t, "https://src.test/a", record.SourceURL)
}

func TestFinancialRecordRepository_UpsertIdempotence(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	first, err := repo.Upsert(ctx, models.RecordFunding, companyID, 100.0, 2023, "https://src.test/old")
	require.NoError(t, err)

	// Same (company, year), different value and source: one row, second write wins.
	second, err := repo.Upsert(ctx, models.RecordFunding, companyID, 250.0, 2023, "https://src.test/new")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 250.0, second.Value)
	assert.Equal(t, "https://src.test/new", second.SourceURL)

	records, err := repo.ListByCompany(ctx, models.RecordFunding, companyID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 250.0, records[0].Value)
}

func TestFinancialRecordRepository_UsersKindStoresWholeNumbers(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	record, err := repo.Upsert(ctx, models.RecordUsers, companyID, 150000.7, 2024, "https://src.test")
	require.NoError(t, err)
	assert.Equal(t, 150001.0, record.Value)
}

func TestFinancialRecordRepository_YearsAreIndependentRows(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	_, err := repo.Upsert(ctx, models.RecordNetworth, companyID, 1.0, 2021, "s")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, models.RecordNetworth, companyID, 2.0, 2022, "s")
	require.NoError(t, err)

	records, err := repo.ListByCompany(ctx, models.RecordNetworth, companyID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest year first.
	assert.Equal(t, 2022, records[0].Year)
	assert.Equal(t, 2021, records[1].Year)
}

func TestFinancialRecordRepository_InvalidKind(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	_, err := repo.Upsert(ctx, models.RecordKind("revenue"), companyID, 1.0, 2024, "s")
	assert.Error(t, err)

	_, err = repo.ListByCompany(ctx, models.RecordKind("revenue"), companyID)
	assert.Error(t, err)
}

func TestFinancialRecordRepository_GetResearchData(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	// Empty series read as a cache miss.
	data, err := repo.GetResearchData(ctx, companyID)
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = repo.Upsert(ctx, models.RecordNetworth, companyID, 10.0, 2023, "s1")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, models.RecordUsers, companyID, 500, 2023, "s2")
	require.NoError(t, err)

	data, err = repo.GetResearchData(ctx, companyID)
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Len(t, data.Networth, 1)
	require.Len(t, data.Users, 1)
	assert.Empty(t, data.Funding)
	assert.Equal(t, 10.0, data.Networth[0].Value)
	assert.Equal(t, 500.0, data.Users[0].Value)
}

func TestFinancialRecordRepository_HasResearchData(t *testing.T) {
	ctx, repo, companyID := setupRecordRepoTest(t)

	has, err := repo.HasResearchData(ctx, companyID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Upsert(ctx, models.RecordFunding, companyID, 1.0, 2020, "s")
	require.NoError(t, err)

	has, err = repo.HasResearchData(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, has)
}
