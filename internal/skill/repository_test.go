package skill

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/skillswap/skillswap-api/internal/database"
)

func newTestDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := database.NewBunDB(sqlDB)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func renderSearch(t *testing.T, db *bun.DB, params SearchParams) string {
	t.Helper()
	q := db.NewSelect().Model((*database.Skill)(nil))
	q = applyFilters(q, params)
	q = q.Order("created_at DESC")
	return q.String()
}

func TestApplyFilters_NoFilters(t *testing.T) {
	db, _ := newTestDB(t)

	sql := renderSearch(t, db, SearchParams{})
	assert.NotContains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "category =")
	assert.NotContains(t, sql, "@>")
	assert.Contains(t, sql, "created_at")
	assert.Contains(t, sql, "DESC")
}

func TestApplyFilters_Text(t *testing.T) {
	db, _ := newTestDB(t)

	sql := renderSearch(t, db, SearchParams{Text: "guitar"})
	// OR semantics across the three text fields
	assert.Contains(t, sql, "(offering ILIKE '%guitar%')")
	assert.Contains(t, sql, "OR (wanting ILIKE '%guitar%')")
	assert.Contains(t, sql, "OR (description ILIKE '%guitar%')")
}

func TestApplyFilters_Category(t *testing.T) {
	db, _ := newTestDB(t)

	sql := renderSearch(t, db, SearchParams{Category: "Music"})
	assert.Contains(t, sql, "(category = 'Music')")
}

func TestApplyFilters_TagsRequireAll(t *testing.T) {
	db, _ := newTestDB(t)

	sql := renderSearch(t, db, SearchParams{Tags: []string{"React", "Design"}})
	// containment, not overlap: every requested tag must be present
	assert.Contains(t, sql, "tags @>")
	assert.Contains(t, sql, "React")
	assert.Contains(t, sql, "Design")
	assert.NotContains(t, sql, "&&")
}

func TestApplyFilters_Conjunction(t *testing.T) {
	db, _ := newTestDB(t)

	sql := renderSearch(t, db, SearchParams{Text: "foo", Category: "X", Tags: []string{"React"}})
	// all filters must appear; the text group is parenthesized so the ORs
	// do not leak into the other conditions
	assert.Contains(t, sql, "((offering ILIKE '%foo%')")
	assert.Contains(t, sql, "AND (category = 'X')")
	assert.Contains(t, sql, "AND (tags @>")
}

func TestRepository_Search_ScansRows(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "offering", "wanting", "description", "category", "tags", "owner_email", "rating", "created_at",
	}).
		AddRow(int64(2), "Guitar", "Python", "strum along", "Music", []byte(`{React,Design}`), "alice@example.com", 0, now).
		AddRow(int64(1), "Cooking", "Go", "", "Food", []byte(`{}`), "bob@example.com", 0, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM "skills"`).WillReturnRows(rows)

	listings, err := repo.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, int64(2), listings[0].ID)
	assert.Equal(t, []string{"React", "Design"}, listings[0].Tags)
	assert.Equal(t, []string{}, listings[1].Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Validation(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Create(context.Background(), "alice@example.com", CreateInput{Wanting: "Python"})
	assert.ErrorIs(t, err, ErrOfferingRequired)

	_, err = repo.Create(context.Background(), "alice@example.com", CreateInput{Offering: "Guitar"})
	assert.ErrorIs(t, err, ErrWantingRequired)

	// nothing was persisted
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Inserts(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "offering", "wanting", "description", "category", "tags", "owner_email", "rating", "created_at",
	}).AddRow(int64(7), "Guitar", "Python", "", "", []byte(`{}`), "alice@example.com", 0, now)

	mock.ExpectQuery(`INSERT INTO "skills"`).WillReturnRows(rows)

	listing, err := repo.Create(context.Background(), "alice@example.com", CreateInput{
		Offering: "Guitar",
		Wanting:  "Python",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), listing.ID)
	assert.Equal(t, "alice@example.com", listing.OwnerEmail)
	assert.Equal(t, 0, listing.Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}
