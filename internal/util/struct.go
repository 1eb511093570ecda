package util

import (
	"reflect"

	"github.com/pkg/errors"
)

const optionalTag = "optional"

// IsStructInitialized checks that every exported pointer, interface, map,
// slice, func or chan field of the struct s points to is non-nil.
// Fields tagged `optional:"true"` are skipped.
func IsStructInitialized(s interface{}) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return errors.New("struct is nil")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return errors.Errorf("expected struct, got %s", val.Kind())
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Tag.Get(optionalTag) == "true" {
			continue
		}

		//nolint:exhaustive
		switch val.Field(i).Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if val.Field(i).IsNil() {
				return errors.Errorf("field %s is not initialized", field.Name)
			}
		}
	}

	return nil
}
