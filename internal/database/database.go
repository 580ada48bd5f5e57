package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sqlx.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "habitquest.db" // Default SQLite file
	}

	db, err := sqlx.Connect("sqlite3", databaseURL+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	if err := dbWrapper.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return dbWrapper, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login_at DATETIME,
		is_active BOOLEAN DEFAULT TRUE
	);`

	habitsTable := `
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		schedule_days TEXT NOT NULL DEFAULT '[]',
		schedule_times TEXT NOT NULL DEFAULT '[]',
		target INTEGER NOT NULL DEFAULT 1,
		reminder_time TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	// One row per habit per local calendar day; same-day completions
	// update count instead of inserting.
	checkinsTable := `
	CREATE TABLE IF NOT EXISTS checkins (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(habit_id, date_key),
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
	);`

	journalTable := `
	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		date_key TEXT UNIQUE NOT NULL,
		mood INTEGER NOT NULL DEFAULT 0,
		energy INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		habit_ids TEXT NOT NULL DEFAULT '[]',
		tags TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	// unlocked_at stays NULL until the achievement first fires and is
	// never cleared afterwards.
	achievementsTable := `
	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		type TEXT UNIQUE NOT NULL,
		unlocked_at DATETIME,
		progress INTEGER NOT NULL DEFAULT 0,
		metadata TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	appStateTable := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	challengesTable := `
	CREATE TABLE IF NOT EXISTS challenges (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT UNIQUE NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		target_streak INTEGER NOT NULL DEFAULT 1,
		habit_ids TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	challengeMembersTable := `
	CREATE TABLE IF NOT EXISTS challenge_members (
		id TEXT PRIMARY KEY,
		challenge_id TEXT NOT NULL,
		name TEXT NOT NULL,
		avatar TEXT,
		is_self BOOLEAN NOT NULL DEFAULT FALSE,
		joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		progress INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (challenge_id) REFERENCES challenges(id) ON DELETE CASCADE
	);`

	indexes := `
	CREATE INDEX IF NOT EXISTS idx_checkins_date_key ON checkins(date_key);
	CREATE INDEX IF NOT EXISTS idx_checkins_habit_id ON checkins(habit_id);
	CREATE INDEX IF NOT EXISTS idx_journal_date_key ON journal_entries(date_key);
	CREATE INDEX IF NOT EXISTS idx_challenge_members_challenge_id ON challenge_members(challenge_id);`

	tables := []string{
		usersTable,
		habitsTable,
		checkinsTable,
		journalTable,
		achievementsTable,
		appStateTable,
		challengesTable,
		challengeMembersTable,
		indexes,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
