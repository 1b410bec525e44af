package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// fixed width so that text comparison in SQL matches chronological order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// fallback layouts the driver may hand back for DATETIME columns
var sqliteParseLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// formats a timestamp for a SQLite DATETIME column
func SQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// formats an optional timestamp, nil becomes NULL
func SQLiteNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: SQLiteTime(*t), Valid: true}
}

// scans a DATETIME column into dst
func ScanSQLiteTime(dst *time.Time) sql.Scanner {
	return timeScanner{dst: dst}
}

// scans a nullable DATETIME column into dst
func ScanSQLiteNullTime(dst **time.Time) sql.Scanner {
	return nullTimeScanner{dst: dst}
}

type timeScanner struct {
	dst *time.Time
}

func (s timeScanner) Scan(src any) error {
	t, ok, err := parseSQLiteTime(src)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("unexpected NULL timestamp")
	}

	*s.dst = t
	return nil
}

type nullTimeScanner struct {
	dst **time.Time
}

func (s nullTimeScanner) Scan(src any) error {
	t, ok, err := parseSQLiteTime(src)
	if err != nil {
		return err
	}

	if !ok {
		*s.dst = nil
		return nil
	}

	*s.dst = &t
	return nil
}

func parseSQLiteTime(src any) (time.Time, bool, error) {
	var raw string

	switch v := src.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v.UTC(), true, nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return time.Time{}, false, fmt.Errorf("cannot scan %T into timestamp", src)
	}

	for _, layout := range sqliteParseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", raw)
}
