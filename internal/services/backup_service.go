package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	applog "stockledger/internal/log"
	"stockledger/internal/repos"
)

// BackupService snapshots the live store into Dir.
type BackupService struct {
	Store *repos.Store
	Dir   string
	Now   func() time.Time
}

func NewBackupService(store *repos.Store, dir string) *BackupService {
	return &BackupService{Store: store, Dir: dir}
}

// Backup writes inventory_backup_YYYYMMDD_HHMMSS_<8 hex>.db and returns its path.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	path := filepath.Join(s.Dir, fmt.Sprintf("inventory_backup_%s_%s.db", now.Format("20060102_150405"), suffix))

	if err := s.Store.Backup(ctx, path); err != nil {
		err = domain.Storage("backup failed", err)
		applog.Error(nil, "ledger.backup.fail", err, map[string]any{"path": path})
		return "", err
	}
	applog.Audit(nil, "ledger.backup", map[string]any{"path": path})
	return path, nil
}
