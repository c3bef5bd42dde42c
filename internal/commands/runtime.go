package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/auditlog"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/config"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/gitops"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/logger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/reconcile"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

// configFile is the config name inside a data directory.
const configFile = "ledgerdesk.yaml"

// Runtime wires config, store, and services for one command invocation.
// Commands load the data directory, mutate the in-memory store through the
// services, and save the whole directory back in one step.
type Runtime struct {
	DataDir string
	Config  *config.Config
	Store   *store.Memory
	Ledger  *ledger.Service
	Matcher *reconcile.Matcher
	Confirm *reconcile.Service
	Log     zerolog.Logger

	files *store.FileStore
}

// NewRuntime loads the config and data files from a data directory.
func NewRuntime(dataDir string) (*Runtime, error) {
	cfg, err := config.Load(filepath.Join(dataDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	files := store.NewFileStore(dataDir)
	mem, err := files.Load()
	if err != nil {
		return nil, fmt.Errorf("loading data dir: %w", err)
	}

	log := logger.New()
	svc := ledger.NewService(mem, ledger.DefaultCategories(), ledger.Limits{
		MaxBatchSize:    cfg.Limits.MaxBatchSize,
		MaxInstallments: cfg.Limits.MaxInstallments,
	}, log)

	matcher := reconcile.NewMatcher(reconcile.Weights{
		Amount:      cfg.Matching.AmountWeight,
		Date:        cfg.Matching.DateWeight,
		Description: cfg.Matching.DescriptionWeight,
	}, cfg.Matching.Threshold)

	return &Runtime{
		DataDir: dataDir,
		Config:  cfg,
		Store:   mem,
		Ledger:  svc,
		Matcher: matcher,
		Confirm: reconcile.NewService(mem, log),
		Log:     log,
		files:   files,
	}, nil
}

// Save writes the store back to disk and, when auto-commit is enabled,
// snapshots the data directory.
func (rt *Runtime) Save(action string) error {
	if err := rt.files.Save(rt.Store); err != nil {
		return err
	}
	if rt.Config.Git.AutoCommit {
		if _, err := gitops.Snapshot(rt.DataDir, action, rt.Config.Git.AuthorName, rt.Config.Git.AuthorEmail); err != nil {
			return fmt.Errorf("git snapshot: %w", err)
		}
	}
	return nil
}

// Audit appends audit entries stamped with the current time.
func (rt *Runtime) Audit(action auditlog.Action, txnID, reference, details string) error {
	return auditlog.Append(rt.DataDir, []auditlog.Entry{{
		Timestamp:     time.Now(),
		Actor:         "cli",
		Action:        action,
		TransactionID: txnID,
		Reference:     reference,
		Details:       details,
	}})
}
