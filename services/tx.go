package services

import (
	"context"
	"database/sql"

	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// Tx объединяет исполнителя запросов с управлением жизненным циклом
// транзакции.
type Tx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner открывает транзакции хранилища. Боевая реализация оборачивает
// *sql.DB, тесты подставляют свою.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type sqlTxBeginner struct {
	db *sql.DB
}

// NewSQLTxBeginner оборачивает пул соединений в TxBeginner.
func NewSQLTxBeginner(db *sql.DB) TxBeginner {
	return sqlTxBeginner{db: db}
}

func (b sqlTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return b.db.BeginTx(ctx, opts)
}
