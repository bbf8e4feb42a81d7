package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/skillswap/skillswap-api/internal/database"
)

var (
	ErrOfferingRequired = errors.New("offering is required")
	ErrWantingRequired  = errors.New("wanting is required")
)

// Repository handles listing persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Search returns listings matching the given filters, newest first.
func (r *Repository) Search(ctx context.Context, params SearchParams) ([]Listing, error) {
	var rows []database.Skill

	q := r.db.NewSelect().Model(&rows)
	q = applyFilters(q, params)
	q = q.Order("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	listings := make([]Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, mapDBSkillToModel(&rows[i]))
	}
	return listings, nil
}

// applyFilters adds the search conditions to a listing query. Factored out
// so the composed SQL can be inspected in tests.
func applyFilters(q *bun.SelectQuery, params SearchParams) *bun.SelectQuery {
	if params.Text != "" {
		pattern := "%" + params.Text + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("offering ILIKE ?", pattern).
				WhereOr("wanting ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern)
		})
	}

	if params.Category != "" {
		q = q.Where("category = ?", params.Category)
	}

	if len(params.Tags) > 0 {
		// Array containment: the listing must carry every requested tag.
		q = q.Where("tags @> ?", pgdialect.Array(params.Tags))
	}

	return q
}

// Create inserts a new listing. created_at and the id are assigned by the
// database; the insert commits before the listing is returned.
func (r *Repository) Create(ctx context.Context, ownerEmail string, input CreateInput) (*Listing, error) {
	if input.Offering == "" {
		return nil, ErrOfferingRequired
	}
	if input.Wanting == "" {
		return nil, ErrWantingRequired
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	row := &database.Skill{
		Offering:    input.Offering,
		Wanting:     input.Wanting,
		Description: input.Description,
		Category:    input.Category,
		Tags:        tags,
		OwnerEmail:  ownerEmail,
		Rating:      0,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	listing := mapDBSkillToModel(row)
	return &listing, nil
}

func mapDBSkillToModel(row *database.Skill) Listing {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Listing{
		ID:          row.ID,
		Offering:    row.Offering,
		Wanting:     row.Wanting,
		Description: row.Description,
		Category:    row.Category,
		Tags:        tags,
		OwnerEmail:  row.OwnerEmail,
		Rating:      row.Rating,
		CreatedAt:   row.CreatedAt,
	}
}
