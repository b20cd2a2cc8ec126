package repoutil

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// InTx reuses dbc.Tx when set, otherwise opens a transaction on db.
func InTx(db *gorm.DB, dbc dbctx.Context, fn func(tx *gorm.DB) error) error {
	if dbc.Tx != nil {
		return fn(dbc.Tx.WithContext(dbc.Ctx))
	}
	return db.WithContext(dbc.Ctx).Transaction(fn)
}
