package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the database used by the ledger.
var DB *gorm.DB

type ContextKey string

const (
	ContextURL ContextKey = "ledger-url"
)

// Driver selects the database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Connect opens the SQLite database at dsn, migrates it and sets DB.
func Connect(dsn string) error {
	return Open(DriverSQLite, dsn)
}

// Open connects to the database with the given driver, migrates
// the schema and sets DB.
func Open(driver Driver, dsn string) error {
	var (
		db  *gorm.DB
		err error
	)

	switch driver {
	case DriverSQLite, "":
		db, err = openSQLite(dsn)
	case DriverPostgres:
		db, err = openPostgres(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return err
	}

	if err := registerCallbacks(db); err != nil {
		return err
	}

	DB = db
	return nil
}

func config() *gorm.Config {
	return &gorm.Config{
		Logger: &logger{
			Logger:        log.Logger,
			SlowThreshold: 200 * time.Millisecond,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func openSQLite(dsn string) (*gorm.DB, error) {
	// Migrate with foreign keys disabled, sqlite copies tables
	// to alter columns
	db, err := gorm.Open(sqlite.Open(dsn), config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// A single connection serializes all writers and avoids SQLITE_BUSY
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func openPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxOpenConns(20)

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "ledger:after_query", queryCallback},
		{db.Callback().Query().After("*"), "ledger:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "ledger:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "ledger:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "ledger:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "ledger:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "ledger:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*"), "ledger:after_raw_general", generalCallback},
		{db.Callback().Row().After("*"), "ledger:after_row_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return err
		}
	}

	return nil
}

var plural = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with one that
// names the resource
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = plural.ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// constraintErrors maps database constraint names to ledger errors.
// SQLite reports the columns, PostgreSQL the constraint name.
var constraintErrors = []struct {
	match []string
	err   error
}{
	{[]string{"UNIQUE constraint failed: accounts.company_id, accounts.code", "account_company_code"}, ErrAccountCodeNotUnique},
	{[]string{"UNIQUE constraint failed: transactions.company_id, transactions.number", "transaction_company_number"}, ErrTransactionNumberNotUnique},
	{[]string{"debit_credit_different"}, ErrTransactionAccountsIdentical},
	{[]string{"amount_positive"}, ErrTransactionAmountNotPositive},
	{[]string{"budgeted_amount_not_negative"}, ErrBudgetAmountNegative},
	{[]string{"quantity_positive"}, ErrBudgetItemQuantity},
	{[]string{"unit_price_not_negative"}, ErrBudgetItemUnitPrice},
}

// createUpdateCallback replaces constraint violations with ledger errors
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	for _, c := range constraintErrors {
		for _, m := range c.match {
			if strings.Contains(msg, m) {
				db.Error = c.err
				return
			}
		}
	}
}

// generalCallback handles database errors we cannot explain to users.
// They are logged and replaced with ErrGeneral.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var sqliteErr *go_sqlite.Error
	var pgErr interface{ SQLState() string }

	// "sql: database is closed" is hard-coded in database/sql
	if db.Error.Error() == "sql: database is closed" || errors.As(db.Error, &sqliteErr) || errors.As(db.Error, &pgErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGeneral, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneral, err)
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Company{}, Account{}, Transaction{}, Budget{}, BudgetItem{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
