package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
)

var registerFunctionsOnce sync.Once
var registerFunctionsErr error

// registerFunctions replaces SQLite's ASCII-only lower() with a Unicode
// one so that LOWER(col) agrees with strings.ToLower. It applies to
// connections opened afterwards.
func registerFunctions() error {
	registerFunctionsOnce.Do(func() {
		registerFunctionsErr = gosqlite.RegisterDeterministicScalarFunction("lower", 1, unicodeLower)
	})
	return registerFunctionsErr
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
