package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InterpolateStruct applies environment variable interpolation to fields
// tagged with `env_interpolation:"yes"`, modifying the struct in place.
// String fields, string maps, string slices, nested structs, and pointers to
// structs are walked; nested structs are descended into regardless of their
// own tag so a tagged leaf anywhere in the tree is reached.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct or pointer to struct, got %T", v)
	}

	typ := val.Type()
	var errs []error

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		tagged := strings.ToLower(fieldType.Tag.Get("env_interpolation")) == "yes"

		switch field.Kind() {
		case reflect.String:
			if !tagged || field.String() == "" {
				continue
			}

			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				continue
			}
			field.SetString(expanded)

		case reflect.Map:
			if !tagged ||
				field.Type().Key().Kind() != reflect.String ||
				field.Type().Elem().Kind() != reflect.String ||
				field.IsNil() {
				continue
			}

			for _, key := range field.MapKeys() {
				value := field.MapIndex(key)
				expanded, err := ExpandEnvVars(value.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%s]: %w", fieldType.Name, key.String(), err))
					continue
				}
				field.SetMapIndex(key, reflect.ValueOf(expanded))
			}

		case reflect.Slice:
			if !tagged || field.Type().Elem().Kind() != reflect.String {
				continue
			}

			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				if elem.String() == "" {
					continue
				}

				expanded, err := ExpandEnvVars(elem.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", fieldType.Name, j, err))
					continue
				}
				elem.SetString(expanded)
			}

		case reflect.Struct:
			if err := InterpolateStruct(field.Addr().Interface()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
			}

		case reflect.Ptr:
			if field.Type().Elem().Kind() == reflect.Struct && !field.IsNil() {
				if err := InterpolateStruct(field.Interface()); err != nil {
					errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}
