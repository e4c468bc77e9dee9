// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package form

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Unmarshal copies form values into the tagged fields of target.
// A tag of `form:"name,required"` fails when the key is absent.
func Unmarshal(input url.Values, target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(target)}
	}

	v := val.Elem()
	if v.Kind() != reflect.Struct {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(target)}
	}
	ttype := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := ttype.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}

		value, exists := input[name]
		if !exists || len(value) == 0 {
			if opts == "required" {
				return &MissingFieldError{Field: name}
			}
			continue
		}
		// NOTE: Take only the first value.
		raw := value[0]
		fieldVal := v.Field(i)
		switch field.Type.Kind() {
		case reflect.String:
			fieldVal.SetString(raw)
		case reflect.Bool:
			fieldVal.SetBool(strings.EqualFold(raw, "true") || raw == "on")
		case reflect.Int:
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("form: field %q: %w", name, err)
			}
			fieldVal.SetInt(int64(n))
		default:
			return fmt.Errorf("form: field %q: unsupported kind %s", name, field.Type.Kind())
		}
	}
	return nil
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "form: missing field " + strconv.Quote(e.Field)
}

type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "form: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Pointer {
		return "form: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "form: Unmarshal(nil " + e.Type.String() + ")"
}
