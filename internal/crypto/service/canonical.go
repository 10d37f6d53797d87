package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
	apperrors "github.com/allisson/membertoken/internal/errors"
)

var errInvalidUTF8 = errors.New("string is not valid UTF-8")

// Canonicalize renders payload as canonical JSON: object keys sorted, no
// insignificant whitespace, no HTML escaping and U+2028/U+2029 left unescaped.
// Numbers keep the text encoding/json produces for them and are not rewritten.
// Equal values always yield identical bytes.
//
// Payloads that cannot be represented (functions, channels, NaN, cycles, strings
// that are not valid UTF-8) fail with ErrSerialization.
func Canonicalize(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.WrapKind(cryptoDomain.ErrSerialization, err)
	}

	// json.Marshal substitutes U+FFFD for invalid bytes, so distinct inputs would collide.
	if !utf8.Valid(raw) {
		return nil, apperrors.WrapKind(cryptoDomain.ErrSerialization, errInvalidUTF8)
	}
	if err := checkUTF8(reflect.ValueOf(payload)); err != nil {
		return nil, apperrors.WrapKind(cryptoDomain.ErrSerialization, err)
	}

	canonical, err := normalize(raw)
	if err != nil {
		return nil, apperrors.WrapKind(cryptoDomain.ErrSerialization, err)
	}
	return canonical, nil
}

// IsCanonical reports whether data is a single JSON value already in canonical form.
func IsCanonical(data []byte) bool {
	canonical, err := normalize(data)
	if err != nil {
		return false
	}
	return bytes.Equal(canonical, data)
}

// checkUTF8 walks every string json.Marshal would emit. It runs after a successful
// Marshal, which has already rejected cyclic values.
func checkUTF8(v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return errInvalidUTF8
		}
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			return checkUTF8(v.Elem())
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := range v.Len() {
			if err := checkUTF8(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkUTF8(iter.Key()); err != nil {
				return err
			}
			if err := checkUTF8(iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			field := t.Field(i)
			if (!field.IsExported() && !field.Anonymous) || field.Tag.Get("json") == "-" {
				continue
			}
			if err := checkUTF8(v.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// normalize decodes a single JSON document into a generic tree and re-encodes it.
// Maps encode with sorted keys, so the output is independent of the input order.
func normalize(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the U+2028 and U+2029 escapes encoding/json always
// emits back into the raw characters. Other escapes are copied unchanged.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = utf8.AppendRune(out, '\u2028')
				i += 5
				continue
			case "2029":
				out = utf8.AppendRune(out, '\u2029')
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
