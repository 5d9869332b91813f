package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrForeignKey    = errors.New("foreign key violation")
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidPatch  = errors.New("invalid patch")
)

// Error carries the failed operation and table alongside the underlying error.
type Error struct {
	Op    string
	Table string
	Err   error
	Cause error

	// Column is the column a duplicate key violation was reported on, when
	// the driver names it.
	Column string
}

func (e *Error) Error() string {
	parts := []string{"store: " + e.Op}
	if e.Table != "" {
		parts = append(parts, "table="+e.Table)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// translate maps driver errors from sqlite and postgres onto the store sentinels.
func translate(err error, op, table string) error {
	if err == nil {
		return nil
	}

	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Op: op, Table: table, Err: ErrNotFound}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &Error{Op: op, Table: table, Err: ErrDuplicateKey, Cause: err, Column: pgDuplicateColumn(pgErr, table)}
		case "23503":
			return &Error{Op: op, Table: table, Err: ErrForeignKey, Cause: err}
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &Error{Op: op, Table: table, Err: ErrDuplicateKey, Cause: err, Column: sqliteDuplicateColumn(msg)}
	case strings.Contains(msg, "duplicate key value"):
		return &Error{Op: op, Table: table, Err: ErrDuplicateKey, Cause: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return &Error{Op: op, Table: table, Err: ErrForeignKey, Cause: err}
	}

	return &Error{Op: op, Table: table, Err: fmt.Errorf("failed to %s: %w", op, err)}
}

// IsDuplicateOn reports whether err is a duplicate key violation on column.
func IsDuplicateOn(err error, column string) bool {
	var storeErr *Error
	if !errors.As(err, &storeErr) {
		return false
	}
	return errors.Is(storeErr.Err, ErrDuplicateKey) && storeErr.Column == column
}

// pgDuplicateColumn reads the column from the detail ("Key (name)=(x) already
// exists.") or from a default constraint name such as users_username_key.
func pgDuplicateColumn(pgErr *pgconn.PgError, table string) string {
	if rest, ok := strings.CutPrefix(pgErr.Detail, "Key ("); ok {
		if col, _, ok := strings.Cut(rest, ")"); ok && !strings.Contains(col, ",") {
			return col
		}
	}

	name := pgErr.ConstraintName
	if name == table+"_pkey" {
		return "id"
	}
	if col, ok := strings.CutPrefix(name, table+"_"); ok {
		if col, ok = strings.CutSuffix(col, "_key"); ok {
			return col
		}
	}
	return ""
}

// sqliteDuplicateColumn reads the column from "UNIQUE constraint failed:
// users.username". Composite keys report no column.
func sqliteDuplicateColumn(msg string) string {
	_, cols, ok := strings.Cut(msg, "UNIQUE constraint failed: ")
	if !ok || strings.Contains(cols, ",") {
		return ""
	}
	cols, _, _ = strings.Cut(cols, " ")
	if i := strings.LastIndex(cols, "."); i >= 0 {
		cols = cols[i+1:]
	}
	return strings.TrimSpace(cols)
}
