package cli

import (
	"fmt"

	actx "go.hackfix.me/cymig/app/context"
	aerrors "go.hackfix.me/cymig/app/errors"
	"go.hackfix.me/cymig/migrate"
	"go.hackfix.me/cymig/store/models"
	"go.hackfix.me/cymig/xtime"
)

// Status shows the state of the migration chain: every applied migration, and
// every script on disk that was not applied yet.
type Status struct {
	Dir string `help:"Directory containing migration scripts. Defaults to the configured directory."`
}

// Run the status command.
func (c *Status) Run(appCtx *actx.Context) error {
	dir := c.Dir
	if dir == "" {
		dir = appCtx.Config.Migrations.Dir
	}

	m := migrate.New(appCtx.Logger)
	migrations := m.GatherMigrations(appCtx.FS, dir)
	onDisk := make(map[string]migrate.FileMigration, len(migrations))
	for _, migration := range migrations {
		onDisk[migration.FileName] = migration
	}

	ctx := appCtx.DB.NewContext()
	records, err := models.Migrations(ctx, appCtx.DB)
	if err != nil {
		return aerrors.NewRuntimeError("failed loading the migration chain", err, "")
	}

	timeNow := appCtx.DB.TimeNow().UTC()
	inChain := make(map[string]struct{}, len(records))
	data := make([][]string, 0, len(records)+len(migrations))

	for _, record := range records {
		inChain[record.FileName] = struct{}{}

		state := string(migrate.StateApplied)
		if migration, ok := onDisk[record.FileName]; ok {
			if migration.Checksum != record.Checksum {
				state = string(migrate.StateMismatch)
			}
		} else {
			state = "no file"
		}

		data = append(data, []string{
			fmt.Sprintf("%d", record.Version),
			record.FileName,
			shortChecksum(record.Checksum),
			xtime.FormatDuration(timeNow.Sub(record.Timestamp)) + " ago",
			state,
		})
	}

	for _, migration := range migrations {
		if _, ok := inChain[migration.FileName]; ok {
			continue
		}
		data = append(data, []string{
			"-",
			migration.FileName,
			shortChecksum(migration.Checksum),
			"-",
			string(migrate.StatePending),
		})
	}

	header := []string{"Version", "File", "Checksum", "Applied", "State"}
	if err = renderTable(header, data, appCtx.Stdout); err != nil {
		return aerrors.NewRuntimeError("failed rendering the migration status", err, "")
	}

	return nil
}
