package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConcurrentUpdate is returned when a guarded UPDATE inside a transaction matched no row.
	ErrConcurrentUpdate = errors.New("concurrent update")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced:
			return fmt.Errorf("%w: %s", ErrConflict, myErr.Message)
		case mysqlNoReferencedRow:
			return fmt.Errorf("%w: %s", ErrNotFound, myErr.Message)
		}
	}
	return err
}

// expectOneRow turns a zero-row exec result into err.
func expectOneRow(res sql.Result, err error) error {
	affected, rerr := res.RowsAffected()
	if rerr != nil {
		return rerr
	}
	if affected == 0 {
		return err
	}
	return nil
}
