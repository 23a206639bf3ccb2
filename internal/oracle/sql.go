package oracle

import (
	"context"
	"database/sql"

	"mtkeras/internal/domain"
)

// SQL executes the single query of a sqlQuery dataset and returns its row set:
// one output holding a list of rows, each a list of column values.
type SQL struct {
	DB     *sql.DB
	Policy FailurePolicy
}

const sqlOracle = "sql"

func (s SQL) Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	if kind != domain.SQLQuery {
		return nil, domain.DomainMismatchError{Op: "sql oracle", Domain: kind}
	}
	rows, err := s.query(ctx, string(ds.(domain.Query)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.OracleFailureError{Oracle: sqlOracle, Index: 0, Err: ctx.Err()}
		}
		v, err := s.Policy.handle(sqlOracle, 0, err)
		if err != nil {
			return nil, err
		}
		return []domain.Output{v}, nil
	}
	return []domain.Output{rows}, nil
}

func (s SQL) query(ctx context.Context, q string) ([]domain.Output, error) {
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []domain.Output{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]domain.Output, len(cols))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
