package main

import (
	"io"

	"stockledger/internal/repos"
	"stockledger/internal/services"
)

// app opens the store on first use so that the shell reuses one handle.
type app struct {
	out io.Writer

	dbPath    string
	backupDir string
	txDefault int
	txMax     int

	store  *repos.Store
	ledger *services.LedgerService
	query  *services.QueryService
	backup *services.BackupService
}

func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	s, err := repos.Open(a.dbPath)
	if err != nil {
		return err
	}
	a.store = s
	a.ledger = services.NewLedgerService(s, nil)
	a.query = services.NewQueryService(s, a.txDefault, a.txMax)
	a.backup = services.NewBackupService(s, a.backupDir)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
}
