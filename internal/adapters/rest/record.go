package rest

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// encodeRecord flattens a resource struct into the string-typed field map
// the REST API expects. Field names become wire keys through wireName, with
// the ID field mapping to the router's ".id". Empty strings and zero ints
// are omitted so creates don't send fields the router would reject; bools
// are always sent as yes/no since both values are meaningful.
func encodeRecord(v any) map[string]string {
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	t := value.Type()

	record := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		key := fieldKey(field.Name)
		switch fv := value.Field(i); fv.Kind() {
		case reflect.String:
			if s := fv.String(); s != "" {
				record[key] = s
			}
		case reflect.Bool:
			record[key] = encodeWireBool(fv.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n := fv.Int(); n != 0 {
				record[key] = strconv.FormatInt(n, 10)
			}
		}
	}

	return record
}

// decodeRecord fills a resource struct from a flat wire record. Keys absent
// from the record leave the field at its zero value; a number the router
// reports in a form strconv can't parse does too.
func decodeRecord(record map[string]string, out any) error {
	value := reflect.ValueOf(out)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return fmt.Errorf("decode record: target must be a non-nil pointer, got %T", out)
	}
	value = value.Elem()
	t := value.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		raw, ok := record[fieldKey(field.Name)]
		if !ok {
			continue
		}

		switch fv := value.Field(i); fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Bool:
			fv.SetBool(decodeWireBool(raw))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				fv.SetInt(n)
			}
		}
	}

	return nil
}

func fieldKey(name string) string {
	if name == "ID" {
		return ".id"
	}
	return wireName(name)
}

func encodeWireBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// decodeWireBool accepts both spellings the router produces: yes/no on the
// CLI-shaped fields and true/false from the JSON layer.
func decodeWireBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true":
		return true
	default:
		return false
	}
}
