package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/sqlinline"
)

// EnsureSchema creates the postgres document tables when missing.
func EnsureSchema(ctx context.Context, sql infra.SQLExecutor) error {
	if _, err := sql.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// encodeDoc renders a document for a jsonb column. "_id" lives in the id
// column instead.
func encodeDoc(fields map[string]any) ([]byte, error) {
	delete(fields, "_id")
	return json.Marshal(fields)
}

func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return parsed, nil
}

// scanDocs reads (id, doc) rows, decoding each doc into T and passing the id
// to setID.
func scanDocs[T any](rows pgx.Rows, setID func(*T, string)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		setID(&item, id)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
