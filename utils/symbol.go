package utils

import (
	"reflect"
	"runtime"
	"strings"
)

func Unvendor(symbol string) (unvendored string) {
	vendorDir := "/vendor/"
	i := strings.Index(symbol, vendorDir)
	if i == -1 {
		return symbol
	}
	return symbol[i+len(vendorDir):]
}

// FuncName returns the unvendored symbol name of the function value fn, or
// "" when fn is not a function.
func FuncName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return Unvendor(f.Name())
}

// ShortFuncName trims the package path from a symbol:
// "github.com/a/b/pkg.(*T).M" becomes "pkg.(*T).M".
func ShortFuncName(symbol string) string {
	if i := strings.LastIndex(symbol, "/"); i != -1 {
		return symbol[i+1:]
	}
	return symbol
}
