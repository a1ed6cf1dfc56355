package handlers

import (
	"stockledger/internal/config"
	"stockledger/internal/metrics"
	"stockledger/internal/repos"
	"stockledger/internal/services"
)

type Deps struct {
	Keys    *services.APIKeyService
	Metrics *metrics.Metrics

	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	AdminHandler     *AdminHandler
}

// NewDeps wires the services over one store. m may be nil.
func NewDeps(store *repos.Store, cfg config.Config, m *metrics.Metrics) *Deps {
	ledgerSvc := services.NewLedgerService(store, m)
	querySvc := services.NewQueryService(store, cfg.TxListDefault, cfg.TxListMax)
	backupSvc := services.NewBackupService(store, cfg.BackupDir)

	return &Deps{
		Keys:             services.NewAPIKeyService(cfg.APIKeyHash),
		Metrics:          m,
		ProductHandler:   &ProductHandler{Ledger: ledgerSvc, Query: querySvc},
		SearchHandler:    &SearchHandler{Query: querySvc},
		InventoryHandler: &InventoryHandler{Query: querySvc, Backup: backupSvc, Store: store},
		AdminHandler:     &AdminHandler{Ledger: ledgerSvc, Query: querySvc},
	}
}
