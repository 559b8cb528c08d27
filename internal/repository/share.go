package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Share is a stored encoded board state.
type Share struct {
	ShareID     uuid.UUID `json:"shareId"`
	BoardID     string    `json:"boardId"`
	ViewState   string    `json:"viewState,omitempty"`
	ElapsedTime string    `json:"elapsedTime,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	MineCount   int       `json:"mineCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Views       int64     `json:"views"`
}

type CreateShareParams struct {
	BoardID     string
	ViewState   string
	ElapsedTime string
	Width       int
	Height      int
	MineCount   int
}

// CreateShare stores a new share. Storing the same three strings twice
// fails with [ErrConflict].
func (q Queries) CreateShare(ctx context.Context, params CreateShareParams) (*Share, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO share (
			share_id, board_id, view_state, elapsed_time, width, height, mine_count
		)
		VALUES (
			@share_id, @board_id, @view_state, @elapsed_time, @width, @height, @mine_count
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"share_id":     id,
			"board_id":     params.BoardID,
			"view_state":   params.ViewState,
			"elapsed_time": params.ElapsedTime,
			"width":        params.Width,
			"height":       params.Height,
			"mine_count":   params.MineCount,
		},
	)
	share, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Share])
	return share, translate(err)
}

// FetchShare returns the share and counts the view.
func (q Queries) FetchShare(ctx context.Context, shareID uuid.UUID) (*Share, error) {
	rows, _ := q.db.Query(
		ctx,
		"UPDATE share SET views = views + 1 WHERE share_id = $1 RETURNING *",
		shareID,
	)
	share, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Share])
	return share, translate(err)
}

func (q Queries) FetchShareByState(
	ctx context.Context, boardID, viewState, elapsedTime string,
) (*Share, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT * FROM share
		WHERE board_id = @board_id
			AND view_state = @view_state
			AND elapsed_time = @elapsed_time`,
		pgx.NamedArgs{
			"board_id":     boardID,
			"view_state":   viewState,
			"elapsed_time": elapsedTime,
		},
	)
	share, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Share])
	return share, translate(err)
}

func (q Queries) DeleteShare(ctx context.Context, shareID uuid.UUID) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM share WHERE share_id = $1", shareID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ShareFilter struct {
	Width     *int
	Height    *int
	MineCount *int
	Limit     int
}

func (f ShareFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// ListShares returns the newest shares matching filter.
func (q Queries) ListShares(ctx context.Context, filter ShareFilter) ([]Share, error) {
	query := "SELECT * FROM share"
	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at DESC LIMIT @limit;"
	args["limit"] = min(max(filter.Limit, 1), 100)

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Share])
}
