// Package bootstrap seeds the database from the CSV fixture set on first
// start. The files form a dependency chain: later files reference earlier
// ones by their file-local ids, which are remapped to the ids the database
// assigns at insert time. All writes run in one transaction; a fatal error
// (missing file, broken timestamp) leaves nothing behind, while a dangling
// reference only skips its row.
package bootstrap

import (
	"context"
	"database/sql"
	"io/fs"

	"go.uber.org/zap"
)

const (
	fileRoles     = "role.csv"
	fileUsers     = "user.csv"
	fileChannels  = "channel.csv"
	fileUserRoles = "user_role.csv"
	fileSettings  = "channel_setting.csv"
	fileAccess    = "user_channel_access.csv"
	fileMessages  = "messages.csv"
)

// Loader runs the import once at startup.
type Loader struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	fsys   fs.FS
}

func New(db *sql.DB, logger *zap.SugaredLogger, fsys fs.FS) *Loader {
	return &Loader{db: db, logger: logger, fsys: fsys}
}

// Run imports the fixture set unless users already exist. The guard is
// deliberately coarse: it does not detect a partial prior import, only
// whether any user row is present. On the common already-seeded path it
// answers from a plain count without ever opening a transaction.
func (l *Loader) Run(ctx context.Context) error {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		l.logger.Info("seed data already present, skipping CSV import")
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := l.runImport(ctx, &sqlStore{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// runImport executes the importers in dependency order, threading the id
// remaps forward. Later importers consult the remaps of earlier ones; no
// importer depends on one that runs after it.
func (l *Loader) runImport(ctx context.Context, st store) error {
	n, err := st.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		l.logger.Info("seed data already present, skipping CSV import")
		return nil
	}

	roleRows, err := readRecords(l.fsys, fileRoles)
	if err != nil {
		return err
	}
	roles, err := l.importRoles(ctx, st, roleRows)
	if err != nil {
		return err
	}

	userRows, err := readRecords(l.fsys, fileUsers)
	if err != nil {
		return err
	}
	users, err := l.importUsers(ctx, st, userRows)
	if err != nil {
		return err
	}

	channelRows, err := readRecords(l.fsys, fileChannels)
	if err != nil {
		return err
	}
	channels, err := l.importChannels(ctx, st, channelRows)
	if err != nil {
		return err
	}

	linkRows, err := readRecords(l.fsys, fileUserRoles)
	if err != nil {
		return err
	}
	links, err := l.importUserRoles(ctx, st, linkRows, users, roles)
	if err != nil {
		return err
	}

	settingRows, err := readRecords(l.fsys, fileSettings)
	if err != nil {
		return err
	}
	settings, err := l.importSettings(ctx, st, settingRows, channels)
	if err != nil {
		return err
	}

	accessRows, err := readRecords(l.fsys, fileAccess)
	if err != nil {
		return err
	}
	access, err := l.importAccess(ctx, st, accessRows, users, channels)
	if err != nil {
		return err
	}

	messageRows, err := readRecords(l.fsys, fileMessages)
	if err != nil {
		return err
	}
	messages, err := l.importMessages(ctx, st, messageRows, users, channels)
	if err != nil {
		return err
	}

	l.logger.Infow("CSV import finished",
		"roles", len(roles),
		"users", len(users),
		"channels", len(channels),
		"user_roles", links.imported,
		"settings", settings.imported,
		"access", access.imported,
		"messages", messages.imported,
		"skipped", links.skipped+settings.skipped+access.skipped+messages.skipped,
	)
	return nil
}
