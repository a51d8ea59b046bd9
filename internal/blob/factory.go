package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/mealsim/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore builds a blob store using mode memory|badger|postgres|s3|auto.
// In auto mode a backend that fails to initialise falls back to memory;
// an explicitly requested backend that fails is an error.
func NewBlobStore(ctx context.Context, cfg appcfg.StoreConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.StoreModeMemory
	}

	if mode == appcfg.StoreModeAuto {
		resolved := cfg.ResolveMode()
		if resolved != appcfg.StoreModeS3 {
			level, code, msg := cfg.S3.Diagnostics()
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
		}
		if resolved == appcfg.StoreModeMemory {
			logf(logger, "INFO blob: mode=memory (auto, nothing configured)")
			return NewMemoryStore(), appcfg.StoreModeMemory, nil
		}

		store, err := open(ctx, resolved, cfg, logger)
		if err != nil {
			logf(logger, "WARN blob.%s: init_failed=%q, fallback=memory", resolved, err.Error())
			return NewMemoryStore(), appcfg.StoreModeMemory, nil
		}
		logf(logger, "INFO blob: mode=%s (auto, configured)", resolved)
		return store, resolved, nil
	}

	switch mode {
	case appcfg.StoreModeMemory:
		logf(logger, "INFO blob: mode=memory (forced)")
		return NewMemoryStore(), appcfg.StoreModeMemory, nil

	case appcfg.StoreModeBadger, appcfg.StoreModePostgres, appcfg.StoreModeS3:
		store, err := open(ctx, mode, cfg, logger)
		if err != nil {
			logf(logger, "FATAL blob.%s: init_failed=%v", mode, err)
			return nil, "", fmt.Errorf("STORE_MODE=%s init failed: %w", mode, err)
		}
		logf(logger, "INFO blob: mode=%s (forced)", mode)
		return store, mode, nil

	default:
		return nil, "", fmt.Errorf("unsupported store mode: %s", mode)
	}
}

func open(ctx context.Context, mode string, cfg appcfg.StoreConfig, logger Logger) (Store, error) {
	switch mode {
	case appcfg.StoreModeBadger:
		if cfg.Badger.Path == "" {
			logf(logger, "WARN blob.badger: BADGER_PATH not set, database is in-memory")
		}
		return OpenBadgerStore(cfg.Badger, logger)

	case appcfg.StoreModePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("missing required config: DATABASE_URL")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL)

	case appcfg.StoreModeS3:
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			return nil, fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
		}
		logf(logger, "INFO blob.s3: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
		return NewS3Store(ctx, cfg.S3)

	default:
		return nil, fmt.Errorf("unsupported store mode: %s", mode)
	}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
