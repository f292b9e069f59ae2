package builder

import (
	"fmt"
	"io"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store/sqlite"
)

// buildJobStore はジョブレコードの保存先を構成します。
// 2 番目の戻り値は接続を持つドライバのクローザで、持たないドライバでは nil です。
func buildJobStore(cfg *config.Config) (store.JobStore, io.Closer, error) {
	switch cfg.JobStoreDriver {
	case config.StoreMemory:
		return store.NewMemory(), nil, nil
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite job store: %w", err)
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown job store driver %q", cfg.JobStoreDriver)
	}
}
