package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/cymig/app/config"
	actx "go.hackfix.me/cymig/app/context"
	aerrors "go.hackfix.me/cymig/app/errors"
	"go.hackfix.me/cymig/cli"
	"go.hackfix.me/cymig/store"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFile string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		Version: version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(configFile, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if app.ctx.Config == nil {
		cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
		if err := cfg.Load(); err != nil {
			return err
		}
		app.ctx.Config = cfg
	}

	if app.ctx.Env != nil {
		if pw := app.ctx.Env.Get("CYMIG_STORE_PASSWORD"); pw != "" {
			app.ctx.Config.Store.Password = pw
		}
	}

	if app.ctx.DB == nil {
		st := app.ctx.Config.Store
		d, err := store.Open(
			app.ctx.Ctx, st.URI, st.Username, st.Password, st.Database, app.ctx.TimeNow,
		)
		if err != nil {
			return aerrors.NewWithCause("failed connecting to the store", err,
				"uri", st.URI, "database", st.Database)
		}
		app.ctx.DB = d
		defer func() {
			_ = d.Close(app.ctx.Ctx)
		}()
	}

	return app.cli.Execute(app.ctx)
}
