// Package postgres stores balances in the Postgres balances table.
package postgres

import (
	"database/sql"
)

type balancesRepo struct{ db *sql.DB }

func New(db *sql.DB) *balancesRepo {
	return &balancesRepo{db: db}
}

func (r *balancesRepo) Name() string {
	return "PostgreSQL"
}
