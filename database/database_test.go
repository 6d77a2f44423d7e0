package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func project(title string, order int, start time.Time, featured bool, category models.ProjectCategory) *models.Project {
	return &models.Project{
		Title:           title,
		Category:        category,
		Description:     "A short description",
		LongDescription: "A long description that is comfortably over fifty characters long.",
		Technologies:    []string{"Go"},
		Features:        []string{"Feature one"},
		Image:           "/img.png",
		Github:          "https://github.com/x/" + title,
		Status:          models.StatusCompleted,
		Featured:        featured,
		DisplayOrder:    order,
		IsActive:        true,
		StartDate:       start,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Page
	}{
		{"", "", Page{1, 10}},
		{"3", "5", Page{3, 5}},
		{"0", "-2", Page{1, 10}},
		{"abc", "1000", Page{1, MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.page, tt.limit))
	}
	assert.Equal(t, 20, Page{Number: 3, Size: 10}.Offset())
}

func TestProjectRepoFindActive(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).ProjectRepo()

	a := project("alpha", 2, date(2023, 1, 1), false, models.CategoryWeb)
	b := project("bravo", 1, date(2024, 1, 1), true, models.CategoryIoT)
	c := project("charlie", 1, date(2022, 1, 1), true, models.CategoryIoT)
	hidden := project("hidden", 0, date(2021, 1, 1), true, models.CategoryIoT)
	for _, p := range []*models.Project{a, b, c, hidden} {
		require.NoError(t, repo.Add(ctx, p))
	}
	ok, err := repo.Deactivate(ctx, hidden.ID)
	require.NoError(t, err)
	require.True(t, ok)

	titles := func(ps []*models.Project) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return out
	}

	got, total, err := repo.FindActive(ctx, ProjectFilter{}, Page{1, 10}, SortDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"bravo", "charlie", "alpha"}, titles(got))

	got, _, err = repo.FindActive(ctx, ProjectFilter{}, Page{1, 10}, SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"bravo", "alpha", "charlie"}, titles(got))

	got, _, err = repo.FindActive(ctx, ProjectFilter{}, Page{1, 10}, SortOldest)
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, titles(got))

	got, total, err = repo.FindActive(ctx, ProjectFilter{Category: "iot"}, Page{1, 10}, SortDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)

	notFeatured := false
	got, total, err = repo.FindActive(ctx, ProjectFilter{Category: "all", Featured: &notFeatured}, Page{1, 10}, SortDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"alpha"}, titles(got))

	got, total, err = repo.FindActive(ctx, ProjectFilter{}, Page{2, 2}, SortDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"alpha"}, titles(got))

	got, total, err = repo.FindActive(ctx, ProjectFilter{}, Page{5, 2}, SortDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, got)
}

func TestProjectRepoCategoryCounts(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).ProjectRepo()

	require.NoError(t, repo.Add(ctx, project("a", 0, date(2023, 1, 1), true, models.CategoryIoT)))
	require.NoError(t, repo.Add(ctx, project("b", 0, date(2023, 1, 1), false, models.CategoryIoT)))
	require.NoError(t, repo.Add(ctx, project("c", 0, date(2023, 1, 1), true, models.CategoryWeb)))

	rows, err := repo.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: "iot", Count: 2, FeaturedCount: 1},
		{Category: "web", Count: 1, FeaturedCount: 1},
	}, rows)

	n, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestProjectRepoRoundTripsListsAndDuration(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).ProjectRepo()

	p := project("dated", 0, date(2024, 1, 15), false, models.CategoryML)
	end := date(2024, 3, 20)
	p.EndDate = &end
	p.Technologies = []string{"NodeMCU", "Firebase"}
	require.NoError(t, repo.Add(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := repo.FindActiveByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"NodeMCU", "Firebase"}, []string(got.Technologies))
	require.NotNil(t, got.DurationDays)
	assert.Equal(t, 65, *got.DurationDays)
}

func TestDeactivateTwiceReportsMissing(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).ProjectRepo()

	p := project("gone", 0, date(2023, 1, 1), false, models.CategoryOther)
	require.NoError(t, repo.Add(ctx, p))

	ok, err := repo.Deactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Deactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.FindActiveByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func certification(credential string, order int, d time.Time) *models.Certification {
	return &models.Certification{
		Title:          "Cert " + credential,
		Issuer:         "Issuer",
		Date:           d,
		CredentialID:   credential,
		Description:    "A certification description",
		Skills:         []string{"Go"},
		CertificateURL: "https://example.com/cert",
		DisplayOrder:   order,
		IsActive:       true,
	}
}

func TestCertificationRepoDuplicateCredential(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).CertificationRepo()

	first := certification("CRED-0001", 1, date(2024, 1, 1))
	require.NoError(t, repo.Add(ctx, first))
	assert.Equal(t, models.IconOther, first.Icon)

	err := repo.Add(ctx, certification("CRED-0001", 2, date(2024, 2, 1)))
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateKey(err))

	all, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestCertificationRepoOrdering(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).CertificationRepo()

	require.NoError(t, repo.Add(ctx, certification("CRED-A", 2, date(2024, 1, 1))))
	require.NoError(t, repo.Add(ctx, certification("CRED-B", 1, date(2023, 1, 1))))
	require.NoError(t, repo.Add(ctx, certification("CRED-C", 1, date(2024, 6, 1))))

	all, err := repo.FindActive(ctx)
	require.NoError(t, err)
	var ids []string
	for _, c := range all {
		ids = append(ids, c.CredentialID)
	}
	assert.Equal(t, []string{"CRED-C", "CRED-B", "CRED-A"}, ids)
}

func TestContactRepo(t *testing.T) {
	ctx := context.Background()
	repo := New(newTestDB(t)).ContactRepo()

	older := &models.Contact{Name: "Old Sender", Email: "old@example.com", Subject: "Old subject", Message: "An older message", IPAddress: "10.0.0.1", UserAgent: "curl"}
	require.NoError(t, repo.Add(ctx, older))
	newer := &models.Contact{Name: "New Sender", Email: "new@example.com", Subject: "New subject", Message: "A newer message", IPAddress: "10.0.0.2", UserAgent: "curl", CreatedAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Add(ctx, newer))
	assert.Equal(t, models.ContactNew, older.Status)

	got, total, err := repo.FindPage(ctx, "", Page{1, 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Empty(t, got[0].IPAddress)
	assert.Empty(t, got[0].UserAgent)

	ok, err := repo.UpdateStatus(ctx, older.ID, models.ContactRead)
	require.NoError(t, err)
	assert.True(t, ok)

	got, total, err = repo.FindPage(ctx, "read", Page{1, 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, older.ID, got[0].ID)

	ok, err = repo.UpdateStatus(ctx, uuid.New(), models.ContactRead)
	require.NoError(t, err)
	assert.False(t, ok)

	var stored models.Contact
	require.NoError(t, repo.GetDB().Where("id = ?", older.ID).First(&stored).Error)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	data, err := LoadSeed()
	require.NoError(t, err)
	require.NotEmpty(t, data.Projects)
	require.NotEmpty(t, data.Certifications)

	require.NoError(t, Seed(ctx, db, data))

	fresh, err := LoadSeed()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, db, fresh))

	n, err := New(db).ProjectRepo().CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(fresh.Projects)), n)
}

func TestRollbackLast(t *testing.T) {
	db := newTestDB(t)
	require.True(t, db.Migrator().HasTable("contacts"))
	require.NoError(t, RollbackLast(db))
	assert.False(t, db.Migrator().HasTable("contacts"))
}
