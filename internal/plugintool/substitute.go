package plugintool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// envPrefix is the fixed prefix used for env input mode variable names.
const envPrefix = "PLUGIN"

// substituteArgs replaces every ${key} placeholder in each template string
// with the stringified value of arguments[key]. This is literal string
// interpolation, never shell expansion: a key absent from arguments leaves
// its placeholder untouched, intentionally, to support static placeholders
// that refer to the environment rather than call arguments.
func substituteArgs(template []string, arguments map[string]any) []string {
	out := make([]string, len(template))
	for i, t := range template {
		out[i] = substituteOne(t, arguments)
	}
	return out
}

func substituteOne(template string, arguments map[string]any) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		start := strings.Index(template[i:], "${")
		if start < 0 {
			b.WriteString(template[i:])
			break
		}
		start += i
		b.WriteString(template[i:start])

		end := strings.Index(template[start:], "}")
		if end < 0 {
			b.WriteString(template[start:])
			break
		}
		end += start

		key := template[start+2 : end]
		value, ok := arguments[key]
		if !ok {
			b.WriteString(template[start : end+1])
			i = end + 1
			continue
		}
		b.WriteString(stringify(value))
		i = end + 1
	}
	return b.String()
}

// stringify renders a scalar naturally and serializes objects/arrays as
// compact JSON, matching the plugin argument-templating contract.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// envVars builds the "env" input-mode variable set for one call: one
// PLUGIN_ARG_<KEY> per top-level argument plus PLUGIN_ARGS_JSON carrying
// the whole object.
func envVars(arguments map[string]any) ([]string, error) {
	full, err := json.Marshal(arguments)
	if err != nil {
		return nil, err
	}

	vars := make([]string, 0, len(arguments)+1)
	for k, v := range arguments {
		vars = append(vars, fmt.Sprintf("%s_ARG_%s=%s", envPrefix, strings.ToUpper(k), stringify(v)))
	}
	vars = append(vars, fmt.Sprintf("%s_ARGS_JSON=%s", envPrefix, full))
	return vars, nil
}
