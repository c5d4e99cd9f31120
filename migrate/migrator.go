package migrate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/cymig/store/models"
	"go.hackfix.me/cymig/store/types"
)

// Migrator runs migrations from .cyp or .cypher files in a directory. When
// migrating, it appends a chain of DataModelMigration nodes to the store, one
// per applied migration. It holds no state; create a fresh value per run.
type Migrator struct {
	logger *slog.Logger
}

// New creates a Migrator. A nil logger falls back to the default one.
func New(logger *slog.Logger) Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return Migrator{logger: logger}
}

// GatherMigrations collects all migration scripts from the given directory.
// The listing is best-effort: an unreadable directory yields an empty result,
// unreadable files and files without a recognized extension are skipped, and
// none of these conditions is an error. The returned order is whatever the
// filesystem enumeration produced; no sorting is applied.
func (m Migrator) GatherMigrations(fsys vfs.FileSystem, dir string) []FileMigration {
	entries, err := vfs.ReadDir(fsys, dir)
	if err != nil {
		// The absence of migrations is not a fatal condition.
		return nil
	}

	var migrations []FileMigration
	for _, entry := range entries {
		if migration, ok := m.processFile(fsys, dir, entry); ok {
			migrations = append(migrations, migration)
		}
	}

	return migrations
}

// RunMigrations applies the given migrations in order. Already applied
// migrations are skipped, and the first failure ends the run; migrations
// committed before it remain applied.
func (m Migrator) RunMigrations(
	ctx context.Context, d types.Querier, migrations []FileMigration,
) error {
	m.logger.Info("running migrations", "count", len(migrations))

	for i, migration := range migrations {
		if err := m.upMigration(ctx, d, uint64(i)+1, migration); err != nil {
			return err
		}
	}

	return nil
}

// PlanState describes what RunMigrations would do with a migration.
type PlanState string

// Plan states.
const (
	StatePending  PlanState = "pending"
	StateApplied  PlanState = "applied"
	StateMismatch PlanState = "mismatch"
)

// PlanStep is one entry of a migration plan.
type PlanStep struct {
	Migration FileMigration
	Version   uint64
	State     PlanState
}

// Plan reports what RunMigrations would do with each migration, without
// executing anything.
func (m Migrator) Plan(
	ctx context.Context, d types.Querier, migrations []FileMigration,
) ([]PlanStep, error) {
	plan := make([]PlanStep, 0, len(migrations))
	for i, migration := range migrations {
		step := PlanStep{Migration: migration, Version: uint64(i) + 1, State: StatePending}

		existing, err := models.GetMigration(ctx, d, migration.FileName)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			step.Version = existing.Version
			step.State = StateApplied
			if existing.Checksum != migration.Checksum {
				step.State = StateMismatch
			}
		}
		plan = append(plan, step)
	}

	return plan, nil
}

// upMigration checks whether a migration was applied already, and applies it
// if it wasn't. The version is the migration's 1-based position in the
// current candidate sequence, independent of any versions already recorded in
// the chain.
func (m Migrator) upMigration(
	ctx context.Context, d types.Querier, version uint64, migration FileMigration,
) error {
	existing, err := models.GetMigration(ctx, d, migration.FileName)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Checksum != migration.Checksum {
			m.logger.Error("migration checksum mismatch", "file", migration.FileName)
			return ChecksumMismatchError{
				FileName: migration.FileName,
				Recorded: existing.Checksum,
				Computed: migration.Checksum,
			}
		}
		m.logger.Info("migration skipped, up to date", "file", migration.FileName)
		return nil
	}

	if err = m.applyMigration(ctx, d, version, migration); err != nil {
		return err
	}

	m.logger.Info("migration done", "file", migration.FileName, "version", version)

	return nil
}

// applyMigration executes the script and records it in the chain. The script
// execution and the record write are two separate transactions; see the
// package documentation for the consequences.
func (m Migrator) applyMigration(
	ctx context.Context, d types.Querier, version uint64, migration FileMigration,
) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Run(ctx, migration.CypherText, nil); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}

	record := &models.MigrationRecord{
		Checksum: migration.Checksum,
		FileName: migration.FileName,
		// The file name, not the script body; see models.MigrationRecord.
		CypherText: migration.FileName,
		Version:    version,
	}

	return record.Save(ctx, d)
}

// processFile reads a single directory entry and returns a FileMigration if
// it is a readable .cyp or .cypher file.
func (m Migrator) processFile(
	fsys vfs.FileSystem, dir string, entry os.FileInfo,
) (FileMigration, bool) {
	if entry.IsDir() {
		return FileMigration{}, false
	}

	ext := filepath.Ext(entry.Name())
	if ext != ".cyp" && ext != ".cypher" {
		return FileMigration{}, false
	}

	text, err := vfs.ReadFile(fsys, filepath.Join(dir, entry.Name()))
	if err != nil {
		return FileMigration{}, false
	}

	return FileMigration{
		Checksum:   Checksum(string(text)),
		FileName:   entry.Name(),
		CypherText: string(text),
	}, true
}
