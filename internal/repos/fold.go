package repos

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// fold(x) lowercases text with Unicode case rules. SQLite's LOWER only
// folds ASCII, so "LÁMPARA" would not match "lámpara".
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldCase)
}

func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
