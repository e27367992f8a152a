// Package repository persists marketplace state in PostgreSQL. It holds no
// business rules; every invariant lives in the negotiation engine. The
// repository only guarantees the consistency contract: WithinTx gives the
// engine locked reads and all-or-nothing writes.
package repository

import (
	"database/sql"
	"log"

	"campusbarter/engine"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	log.Println("[REPOSITORY] Repository initialized")
	return &Repository{db: db}
}

// Tx is the transactional view handed to the negotiation engine. All row
// reads go through SELECT ... FOR UPDATE so concurrent transitions on the
// same rows serialize instead of interleaving.
type Tx struct {
	tx *sql.Tx
}

var _ engine.Store = (*Repository)(nil)
var _ engine.TxStore = (*Tx)(nil)

// WithinTx runs fn inside one database transaction. A non-nil error from fn
// rolls everything back, including any cascade writes already issued.
func (repo *Repository) WithinTx(fn func(tx engine.TxStore) error) error {
	sqlTx, err := repo.db.Begin()
	if err != nil {
		log.Printf("[REPOSITORY] Error starting transaction: %v", err)
		return err
	}
	defer sqlTx.Rollback() // Will be ignored if Commit() succeeds

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		log.Printf("[REPOSITORY] Error committing transaction: %v", err)
		return err
	}
	return nil
}
