package postgres_repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// postgresFlagRepository stores flags in topic_flags, keyed by (store, topic_id).
// The schema comes from the migrations directory.
type postgresFlagRepository struct {
	DB *sql.DB
}

func NewPostgresFlagRepository(db *sql.DB) *postgresFlagRepository {
	return &postgresFlagRepository{DB: db}
}

func (p *postgresFlagRepository) Open(ctx context.Context, _ string) error {
	return p.DB.PingContext(ctx)
}

func (p *postgresFlagRepository) All(ctx context.Context, store string) (map[string]bool, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT topic_id, flag FROM topic_flags WHERE store=$1`, store)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		var flag bool
		if err := rows.Scan(&id, &flag); err != nil {
			return nil, err
		}
		out[id] = flag
	}
	return out, rows.Err()
}

func (p *postgresFlagRepository) Get(ctx context.Context, store, topicID string) (bool, bool, error) {
	var flag bool
	err := p.DB.QueryRowContext(ctx, `SELECT flag FROM topic_flags WHERE store=$1 AND topic_id=$2`, store, topicID).Scan(&flag)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return flag, true, nil
}

func (p *postgresFlagRepository) Put(ctx context.Context, store string, topicIDs []string, flag bool) error {
	if len(topicIDs) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, `
INSERT INTO topic_flags (store, topic_id, flag, updated_at)
SELECT $1, id, $3, NOW() FROM unnest($2::text[]) AS id
ON CONFLICT (store, topic_id) DO UPDATE SET flag=EXCLUDED.flag, updated_at=NOW()`,
		store, pq.Array(topicIDs), flag)
	return err
}

func (p *postgresFlagRepository) Delete(ctx context.Context, store, topicID string) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM topic_flags WHERE store=$1 AND topic_id=$2`, store, topicID)
	return err
}

func (p *postgresFlagRepository) Close() error { return p.DB.Close() }
