package command

import (
	"fmt"
	"reflect"
)

// FromFunc derives a command schema from a Go function. Go carries no
// parameter names or defaults at runtime, so the caller supplies names
// (aligned with the function's parameters) and a defaults map:
//
//   - a named parameter WITHOUT a default becomes positional,
//   - a named parameter WITH a default becomes an option flag, exposed as
//     --name and additionally -n when that short flag is free,
//   - a bool default makes the option a zero-arity switch,
//   - a final variadic parameter consumes every remaining token.
//
// Dtypes are inferred from the function's parameter types. The function
// may return an int exit code or nothing, and may take a *Context as its
// first parameter to reach its stage's streams; the context does not
// count as a named parameter. FromFunc is the convenience path; hosts
// that want full control declare schemas with New and AddArg.
func FromFunc(name string, fn interface{}, params []string, defaults map[string]interface{}) (*Command, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: expected a function, got %s", name, fnType)
	}
	if fnType.NumOut() > 1 || (fnType.NumOut() == 1 && fnType.Out(0).Kind() != reflect.Int) {
		return nil, fmt.Errorf("%s: callable must return int or nothing", name)
	}

	wantsContext := fnType.NumIn() > 0 && fnType.In(0) == reflect.TypeOf((*Context)(nil))
	offset := 0
	if wantsContext {
		offset = 1
	}

	if len(params) != fnType.NumIn()-offset {
		return nil, fmt.Errorf("%s: %d parameter names for %d parameters",
			name, len(params), fnType.NumIn()-offset)
	}

	cmd := New(name, nil)

	slots := make([]paramSlot, len(params))

	for i := 0; i < len(params); i++ {
		pname := params[i]
		ptype := fnType.In(i + offset)
		variadic := fnType.IsVariadic() && i+offset == fnType.NumIn()-1
		if variadic {
			ptype = ptype.Elem()
		}

		defaultValue, optional := defaults[pname]
		slots[i] = paramSlot{name: pname, typ: ptype, optional: optional, variadic: variadic}

		if !optional {
			if err := cmd.AddArg(pname, ArgSpec{
				All:   variadic,
				Dtype: dtypeFor(ptype),
			}); err != nil {
				return nil, err
			}
			continue
		}

		spelling := "--" + pname
		if short := "-" + pname[:1]; cmd.Optional[short] == nil {
			spelling = short + "|" + spelling
		}

		_, isBool := defaultValue.(bool)
		if err := cmd.AddArg(spelling, ArgSpec{
			Bool:    isBool,
			Dtype:   dtypeFor(ptype),
			Default: defaultValue,
		}); err != nil {
			return nil, err
		}
	}

	cmd.Fn = func(ctx *Context) int {
		args, err := reflectedArgs(ctx, slots)
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "%s: %v\n", name, err)
			return 1
		}
		if wantsContext {
			args = append([]reflect.Value{reflect.ValueOf(ctx)}, args...)
		}

		results := fnVal.Call(args)
		if len(results) == 1 {
			return int(results[0].Int())
		}
		return 0
	}

	return cmd, nil
}

type paramSlot struct {
	name     string
	typ      reflect.Type
	optional bool
	variadic bool
}

// reflectedArgs assembles the reflect call arguments for a derived
// command from the bound positional and option values.
func reflectedArgs(ctx *Context, slots []paramSlot) ([]reflect.Value, error) {
	var args []reflect.Value
	posIdx := 0

	for _, s := range slots {
		if s.optional {
			value, _ := ctx.Option(formatName(s.name))
			coerced, err := coerce(value, s.typ)
			if err != nil {
				return nil, fmt.Errorf("option %q: %v", s.name, err)
			}
			args = append(args, coerced)
			continue
		}

		if s.variadic {
			for ; posIdx < len(ctx.Positional); posIdx++ {
				coerced, err := coerce(ctx.Positional[posIdx], s.typ)
				if err != nil {
					return nil, fmt.Errorf("argument %q: %v", s.name, err)
				}
				args = append(args, coerced)
			}
			continue
		}

		if posIdx >= len(ctx.Positional) {
			return nil, fmt.Errorf("missing argument %q", s.name)
		}
		coerced, err := coerce(ctx.Positional[posIdx], s.typ)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %v", s.name, err)
		}
		args = append(args, coerced)
		posIdx++
	}

	return args, nil
}

// coerce turns a bound value into a reflect.Value of the wanted type.
// Valued options arrive as []string slices; scalars take the first entry.
func coerce(value interface{}, want reflect.Type) (reflect.Value, error) {
	if values, ok := value.([]string); ok && want.Kind() != reflect.Slice {
		if len(values) == 0 {
			return reflect.Zero(want), nil
		}
		converted, err := convertByKind(values[0], want)
		if err != nil {
			return reflect.Value{}, err
		}
		return converted, nil
	}

	if value == nil {
		return reflect.Zero(want), nil
	}

	v := reflect.ValueOf(value)
	if v.Type() == want {
		return v, nil
	}
	if v.Kind() == reflect.String && want.Kind() != reflect.String {
		return convertByKind(v.String(), want)
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, want)
}

func convertByKind(raw string, want reflect.Type) (reflect.Value, error) {
	dtype := dtypeFor(want)
	if dtype == nil {
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", want)
	}
	value, err := dtype(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(value)
	if v.Type() != want && v.Type().ConvertibleTo(want) {
		v = v.Convert(want)
	}
	return v, nil
}

// dtypeFor infers a converter from a Go type. Unknown types keep raw
// strings, which suits string-ish kinds.
func dtypeFor(t reflect.Type) Dtype {
	switch t.Kind() {
	case reflect.String:
		return StringType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntType
	case reflect.Float32, reflect.Float64:
		return FloatType
	case reflect.Bool:
		return BoolType
	default:
		return nil
	}
}
