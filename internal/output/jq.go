package output

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// CompileJQ parses and compiles a jq program.
func CompileJQ(expr string) (*gojq.Code, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, ErrUsageHint(fmt.Sprintf("Invalid --jq expression: %v", err), "See https://jqlang.github.io/jq/manual/")
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, ErrUsageHint(fmt.Sprintf("Invalid --jq expression: %v", err), "See https://jqlang.github.io/jq/manual/")
	}
	return code, nil
}

// writeJQ runs the configured program over the JSON form of v. Strings are
// written raw, everything else as compact JSON.
func (w *Writer) writeJQ(v any) error {
	code, err := CompileJQ(w.opts.JQ)
	if err != nil {
		return err
	}

	input, err := toJQValue(v)
	if err != nil {
		return err
	}

	iter := code.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := result.(error); isErr {
			if halt, isHalt := err.(*gojq.HaltError); isHalt && halt.Value() == nil {
				return nil
			}
			return ErrUsage(fmt.Sprintf("--jq: %v", err))
		}
		if s, isString := result.(string); isString {
			fmt.Fprintln(w.opts.Writer, s)
			continue
		}
		b, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(w.opts.Writer, string(b))
	}
}

// toJQValue converts v to the map/slice/float64 shapes gojq operates on.
func toJQValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
