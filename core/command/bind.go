package command

import "fmt"

// Bound is the result of binding a flat token list against a command's
// schema: ordered positional values plus a name -> value(s) map for the
// options that were present.
type Bound struct {
	Positional []interface{}
	Options    map[string]interface{}
}

// Bind maps args (the tokens after the command name) onto cmd's declared
// parameters. Positional parameters consume tokens first, in declared
// order; whatever remains must be options matched by exact flag spelling.
func Bind(cmd *Command, args []string) (*Bound, error) {
	bound := &Bound{Options: make(map[string]interface{})}
	rest := args

	for i, spec := range cmd.Positional {
		if spec.NArgs == NArgsAll {
			if i != len(cmd.Positional)-1 {
				return nil, fmt.Errorf("%s: variadic positional %q must be declared last",
					cmd.Name, spec.FormattedName)
			}
			for _, raw := range rest {
				value, err := convert(cmd, spec, raw)
				if err != nil {
					return nil, err
				}
				bound.Positional = append(bound.Positional, value)
			}
			rest = nil
			break
		}

		if len(rest) == 0 {
			if spec.Default != nil {
				bound.Positional = append(bound.Positional, spec.Default)
				continue
			}
			return nil, &ArgumentCountError{
				Command: cmd.Name,
				Param:   spec.FormattedName,
				Want:    spec.NArgs,
				Got:     0,
			}
		}

		value, err := convert(cmd, spec, rest[0])
		if err != nil {
			return nil, err
		}
		bound.Positional = append(bound.Positional, value)
		rest = rest[1:]
	}

	for i := 0; i < len(rest); {
		spec, ok := cmd.Optional[rest[i]]
		if !ok {
			return nil, &UnknownOptionError{Command: cmd.Name, Option: rest[i]}
		}

		switch {
		case spec.Bool:
			bound.Options[spec.FormattedName] = true
			i++

		case spec.NArgs == NArgsAll:
			values := make([]string, len(rest[i+1:]))
			copy(values, rest[i+1:])
			bound.Options[spec.FormattedName] = values
			i = len(rest)

		default:
			available := len(rest) - i - 1
			if available < spec.NArgs {
				return nil, &ArgumentCountError{
					Command: cmd.Name,
					Param:   rest[i],
					Want:    spec.NArgs,
					Got:     available,
				}
			}
			values := make([]string, spec.NArgs)
			copy(values, rest[i+1:i+1+spec.NArgs])
			bound.Options[spec.FormattedName] = values
			i += spec.NArgs + 1
		}
	}

	return bound, nil
}

func convert(cmd *Command, spec *ParamSpec, raw string) (interface{}, error) {
	if spec.Dtype == nil {
		return raw, nil
	}
	value, err := spec.Dtype(raw)
	if err != nil {
		return nil, &TypeConversionError{
			Command: cmd.Name,
			Param:   spec.FormattedName,
			Value:   raw,
			Cause:   err,
		}
	}
	return value, nil
}
