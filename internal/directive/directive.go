// Package directive maps named annotation blocks on schema AST nodes to
// typed configuration values. A directive's argument list is converted to
// JSON and decoded through the target type's json tags, so each config type
// declares its own decoding rule the same way it declares its wire shape.
package directive

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/gqlgate/gqlgate/internal/language"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// Decode maps d's arguments onto a value of type T. Failures carry the
// directive name as trace label and name the offending argument.
func Decode[T any](d *language.Directive) valid.Valid[T] {
	var out T
	return valid.AndThen(argumentMap(d), func(m map[string]any) valid.Valid[T] {
		if errs := unknownArguments(m, reflect.TypeOf(out)); len(errs) > 0 {
			return valid.FromErrors[T](errs)
		}
		if cause := decodeInto(m, &out); cause != nil {
			return valid.FromErrors[T]([]*valid.Cause{cause})
		}
		return valid.Succeed(out)
	}).Trace(d.Name)
}

// First locates the first block named name and decodes it. Absence of the
// directive is not an error; the result holds nil.
func First[T any](list language.DirectiveList, name string) valid.Valid[*T] {
	for _, d := range list {
		if d.Name != name {
			continue
		}
		return valid.Map(Decode[T](d), func(v T) *T { return &v })
	}
	return valid.Succeed[*T](nil)
}

// Fold decodes every block named name in document order on top of base,
// overriding earlier values field by field rather than wholesale. Used for
// the repeatable root directives.
func Fold[T any](list language.DirectiveList, name string, base T) valid.Valid[T] {
	res := valid.Succeed(base)
	for _, d := range list {
		if d.Name != name {
			continue
		}
		d := d
		res = valid.AndThen(res, func(acc T) valid.Valid[T] {
			return valid.AndThen(argumentMap(d), func(m map[string]any) valid.Valid[T] {
				if errs := unknownArguments(m, reflect.TypeOf(acc)); len(errs) > 0 {
					return valid.FromErrors[T](errs)
				}
				// Unmarshalling over the accumulator only touches the fields
				// present in this block, which is exactly the field-wise
				// last-write-wins merge we want.
				if cause := decodeInto(m, &acc); cause != nil {
					return valid.FromErrors[T]([]*valid.Cause{cause})
				}
				return valid.Succeed(acc)
			}).Trace(d.Name)
		})
	}
	return res
}

// argumentMap converts a directive's const arguments to plain Go values,
// accumulating a failure per unconvertible argument.
func argumentMap(d *language.Directive) valid.Valid[map[string]any] {
	pairs := valid.FromIter(d.Arguments, func(arg *language.Argument) valid.Valid[[2]any] {
		v, err := arg.Value.Value(nil)
		if err != nil {
			return valid.FailWith[[2]any](
				fmt.Sprintf("invalid value for argument '%s'", arg.Name), err.Error())
		}
		return valid.Succeed([2]any{arg.Name, v})
	})
	return valid.Map(pairs, func(ps [][2]any) map[string]any {
		m := make(map[string]any, len(ps))
		for _, p := range ps {
			m[p[0].(string)] = p[1]
		}
		return m
	})
}

func decodeInto(m map[string]any, out any) *valid.Cause {
	data, err := json.Marshal(m)
	if err != nil {
		return &valid.Cause{Message: "malformed arguments", Description: err.Error()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
			return &valid.Cause{
				Message:     fmt.Sprintf("invalid value for argument '%s'", typeErr.Field),
				Description: fmt.Sprintf("expected %s", typeErr.Type),
			}
		}
		return &valid.Cause{Message: "malformed arguments", Description: err.Error()}
	}
	return nil
}

// unknownArguments reports every argument key that no json tag of t accepts.
func unknownArguments(m map[string]any, t reflect.Type) []*valid.Cause {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	allowed := make(map[string]bool, t.NumField())
	collectFieldNames(t, allowed)
	var errs []*valid.Cause
	for key := range m {
		if !allowed[key] {
			errs = append(errs, &valid.Cause{Message: fmt.Sprintf("unknown argument '%s'", key)})
		}
	}
	sortCauses(errs)
	return errs
}

func collectFieldNames(t reflect.Type, into map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFieldNames(ft, into)
			}
			continue
		}
		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		into[name] = true
	}
}

// Map iteration order is random; keep unknown-argument reports stable.
func sortCauses(errs []*valid.Cause) {
	for i := 1; i < len(errs); i++ {
		for j := i; j > 0 && errs[j-1].Message > errs[j].Message; j-- {
			errs[j-1], errs[j] = errs[j], errs[j-1]
		}
	}
}
