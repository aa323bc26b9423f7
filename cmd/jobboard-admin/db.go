package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/bootstrap"
	"github.com/target/jobboard/internal/devseed"
	"github.com/target/jobboard/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

var errAborted = errors.New("aborted by user")

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	SeedFile    string
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	File        string
	AllowRemote bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args, cmdCtx.Stderr)
	if err != nil {
		return err
	}
	if err := requirePostgres(cmdCtx); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if opts.Status {
			applied, listErr := migrate.Applied(ctx, db)
			if listErr != nil {
				return listErr
			}
			files, filesErr := migrate.Files()
			if filesErr != nil {
				return filesErr
			}
			return printMigrationStatus(cmdCtx.Stdout, files, applied)
		}

		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args, cmdCtx.Stderr)
	if err != nil {
		return err
	}
	if err := requirePostgres(cmdCtx); err != nil {
		return err
	}

	pg := cmdCtx.Config.Postgres
	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop every job and application")
	if err != nil {
		return err
	}
	if !opts.Yes || remote {
		target := fmt.Sprintf("database %q on %s:%d", pg.Name, pg.Host, pg.Port)
		if confirmErr := confirm(cmdCtx, "About to drop the jobs and applications tables for "+target+"."); confirmErr != nil {
			return confirmErr
		}
	}

	err = withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping job board tables", "database", pg.Name)
		if resetErr := migrate.Reset(ctx, db); resetErr != nil {
			return resetErr
		}
		cmdCtx.Logger.Info("re-running database migrations")
		return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
	})
	if err != nil || opts.SeedFile == "" {
		return err
	}
	return seed(cmdCtx, opts.Timeout, opts.SeedFile)
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args, cmdCtx.Stderr)
	if err != nil {
		return err
	}
	if cmdCtx.Config.Store.Driver == config.StoreDriverPostgres {
		if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
			return guardErr
		}
	}
	return seed(cmdCtx, opts.Timeout, opts.File)
}

// seed opens the full service stack so fixture users are registered with the
// configured identity provider.
func seed(cmdCtx *commandContext, timeout time.Duration, file string) error {
	fx, err := devseed.LoadFile(file)
	if err != nil {
		return err
	}
	if cmdCtx.Config.Auth.Mode == config.AuthModeMock {
		cmdCtx.Logger.Warn("mock auth keeps accounts in memory; set DEV_SEED_FILE on the server to recreate them at startup")
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	services, err := bootstrap.OpenServices(ctx, &cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := services.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close services failed", "error", closeErr)
		}
	}()

	seeder := &devseed.Seeder{
		Auth:     services.Auth,
		Identity: services.Identity,
		Jobs:     services.Jobs,
		Logger:   cmdCtx.Logger,
	}
	res, err := seeder.Run(ctx, fx)
	if err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return writef(cmdCtx.Stdout, "Seeded %d users and %d jobs (%d jobs already present).\n", res.Users, res.Jobs, res.Skipped)
}

func requirePostgres(cmdCtx *commandContext) error {
	if cmdCtx.Config.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("command requires STORE_DRIVER=postgres; the %s store migrates itself on open", cmdCtx.Config.Store.Driver)
	}
	return nil
}

func parseMigrateFlags(args []string, stderr io.Writer) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")
	fs.BoolVar(&opts.Status, "status", false, "List embedded migrations and whether each is applied")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDBResetFlags(args []string, stderr io.Writer) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := dbResetOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for reset operations to complete")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.StringVar(&opts.SeedFile, "seed", "", "Apply this YAML seed fixture after the reset")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Permit running against database hosts that do not look local")

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbResetOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDBSeedFlags(args []string, stderr io.Writer) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := dbSeedOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for seeding to complete")
	fs.StringVar(&opts.File, "file", os.Getenv("DEV_SEED_FILE"), "YAML seed fixture (defaults to DEV_SEED_FILE)")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Permit running against database hosts that do not look local")

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}
	if strings.TrimSpace(opts.File) == "" {
		return dbSeedOptions{}, errors.New("--file is required")
	}
	return opts, nil
}

func withDatabase(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func printMigrationStatus(w io.Writer, files, applied []string) error {
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "VERSION\tSTATUS"); err != nil {
		return fmt.Errorf("print migration header: %w", err)
	}
	for _, f := range files {
		version := strings.TrimSuffix(f, ".sql")
		status := "pending"
		if done[version] {
			status = "applied"
		}
		if err := writef(tw, "%s\t%s\n", version, status); err != nil {
			return fmt.Errorf("print migration row: %w", err)
		}
	}
	return tw.Flush()
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	if err := writef(cmdCtx.Stderr,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\nType %q to continue or press enter to abort: ",
		host, action, host,
	); err != nil {
		return true, fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := readLine(cmdCtx.Stdin)
	if err != nil || resp != host {
		return true, errAborted
	}
	return true, nil
}

func confirm(cmdCtx *commandContext, intro string) error {
	if err := writef(cmdCtx.Stdout, "%s\nContinue? [y/N]: ", intro); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := readLine(cmdCtx.Stdin)
	if err != nil {
		return errAborted
	}
	resp = strings.ToLower(resp)
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errAborted
}

// readLine reads up to a newline one byte at a time so that consecutive
// prompts on the same reader do not lose buffered input.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" || h == "localhost" || strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}
