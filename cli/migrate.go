package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/nrednav/cuid2"

	actx "go.hackfix.me/cymig/app/context"
	aerrors "go.hackfix.me/cymig/app/errors"
	"go.hackfix.me/cymig/migrate"
)

// Migrate applies pending migration scripts to the store, in discovery order.
type Migrate struct {
	Dir     string        `help:"Directory containing migration scripts. Defaults to the configured directory."`
	DryRun  bool          `help:"Only report what would be done, without executing anything."`
	Timeout time.Duration `type:"duration" help:"Deadline for the whole run, e.g. '90s' or '1h'. Unlimited if unset."`
}

// Run the migrate command.
func (c *Migrate) Run(appCtx *actx.Context) error {
	dir := c.Dir
	if dir == "" {
		dir = appCtx.Config.Migrations.Dir
	}

	logger := appCtx.Logger.With("run_id", cuid2.Generate())
	m := migrate.New(logger)
	migrations := m.GatherMigrations(appCtx.FS, dir)

	ctx := appCtx.DB.NewContext()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.DryRun {
		plan, err := m.Plan(ctx, appCtx.DB, migrations)
		if err != nil {
			return aerrors.NewRuntimeError("failed planning migrations", err, "")
		}
		return renderPlan(appCtx.Stdout, plan)
	}

	if err := m.RunMigrations(ctx, appCtx.DB, migrations); err != nil {
		var mismatchErr migrate.ChecksumMismatchError
		if errors.As(err, &mismatchErr) {
			return aerrors.NewRuntimeError(mismatchErr.Error(), nil,
				"The script's content changed after it was applied. Restore the "+
					"original content; the recorded migration is never overwritten.")
		}
		return aerrors.NewRuntimeError("failed running migrations", err, "")
	}

	return nil
}

func renderPlan(w io.Writer, plan []migrate.PlanStep) error {
	data := make([][]string, 0, len(plan))
	for _, step := range plan {
		data = append(data, []string{
			step.Migration.FileName,
			shortChecksum(step.Migration.Checksum),
			string(step.State),
		})
	}

	if err := renderTable([]string{"File", "Checksum", "State"}, data, w); err != nil {
		return aerrors.NewRuntimeError("failed rendering the migration plan", err, "")
	}

	return nil
}

func shortChecksum(checksum string) string {
	if len(checksum) > 8 {
		return checksum[:8]
	}
	return checksum
}
