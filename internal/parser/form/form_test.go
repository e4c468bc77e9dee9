// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package form

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

type TestStruct struct {
	StringField string `form:"string_field"`
	BoolField   bool   `form:"bool_field"`
	IntField    int    `form:"int_field"`
	Ignored     string `form:"-"`
	Untagged    string
}

type RequiredStruct struct {
	Table string `form:"table,required"`
}

func TestUnmarshal(t *testing.T) {
	testCases := []struct {
		name        string
		input       url.Values
		expected    TestStruct
		expectedErr bool
	}{
		{
			name: "Valid input data",
			input: url.Values{
				"string_field": {"test_string", "second"},
				"bool_field":   {"TRUE"},
				"int_field":    {"42"},
				"Ignored":      {"x"},
				"Untagged":     {"y"},
			},
			expected: TestStruct{
				StringField: "test_string",
				BoolField:   true,
				IntField:    42,
			},
		},
		{
			name:     "Checkbox on",
			input:    url.Values{"bool_field": {"on"}},
			expected: TestStruct{BoolField: true},
		},
		{
			name:     "Empty input",
			input:    url.Values{},
			expected: TestStruct{},
		},
		{
			name:     "Empty int",
			input:    url.Values{"int_field": {""}},
			expected: TestStruct{},
		},
		{
			name:        "Invalid int",
			input:       url.Values{"int_field": {"four"}},
			expected:    TestStruct{},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var target TestStruct
			err := Unmarshal(tc.input, &target)
			if (err != nil) != tc.expectedErr {
				t.Errorf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(target, tc.expected) {
				t.Errorf("Unmarshal did not produce expected result. got: %+v, expected: %+v", target, tc.expected)
			}
		})
	}
}

func TestUnmarshal_Required(t *testing.T) {
	var target RequiredStruct
	err := Unmarshal(url.Values{}, &target)
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "table" {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}

	if err := Unmarshal(url.Values{"table": {""}}, &target); err != nil {
		t.Fatalf("present but empty value is allowed: %v", err)
	}
}

func TestUnmarshal_InvalidTarget(t *testing.T) {
	var target TestStruct
	for _, in := range []any{nil, target, (*TestStruct)(nil), new(string)} {
		var invalid *InvalidUnmarshalError
		if err := Unmarshal(url.Values{}, in); !errors.As(err, &invalid) {
			t.Fatalf("Unmarshal(%T) expected InvalidUnmarshalError, got %v", in, err)
		}
	}
}
