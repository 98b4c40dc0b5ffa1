package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scrawl/internal/db"
)

// ListGamesInput contains parameters for the ListGames operation.
type ListGamesInput struct {
	Limit          int // default: 20, max: 100
	Offset         int // default: 0
	IncludeDeleted bool
}

// ListGamesOutput contains the result of the ListGames operation.
type ListGamesOutput struct {
	Items      []db.GameSummary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// ListGames retrieves game summaries, most recently updated first.
func ListGames(ctx context.Context, database *sql.DB, input ListGamesInput) (*ListGamesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	summaries, total, err := db.ListGames(ctx, database, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []db.GameSummary{}
	}

	return &ListGamesOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}
