package stdlib

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.string

func stringNatives() table {
	return table{
		"upper": native("upper", 1, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.upper")
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.ToUpper(s)), nil
		}),
		"lower": native("lower", 1, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.lower")
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.ToLower(s)), nil
		}),
		"trim": native("trim", 1, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.trim")
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.TrimSpace(s)), nil
		}),
		"starts_with": native("starts_with", 2, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.starts_with value")
			if err != nil {
				return nil, err
			}
			prefix, err := argString(args[1], "string.starts_with prefix")
			if err != nil {
				return nil, err
			}
			return runtime.Bool(strings.HasPrefix(s, prefix)), nil
		}),
		"ends_with": native("ends_with", 2, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.ends_with value")
			if err != nil {
				return nil, err
			}
			suffix, err := argString(args[1], "string.ends_with suffix")
			if err != nil {
				return nil, err
			}
			return runtime.Bool(strings.HasSuffix(s, suffix)), nil
		}),
		"split": native("split", 2, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "string.split value")
			if err != nil {
				return nil, err
			}
			delim, err := argString(args[1], "string.split delimiter")
			if err != nil {
				return nil, err
			}
			if delim == "" {
				return nil, errors.New("Delimiter cannot be empty in string.split.")
			}
			list := &runtime.ListValue{}
			for _, part := range strings.Split(s, delim) {
				list.Elements = append(list.Elements, runtime.Str(part))
			}
			return list, nil
		}),
		"join": native("join", 2, func(args []runtime.Value) (runtime.Value, error) {
			list, err := argList(args[0], "string.join")
			if err != nil {
				return nil, err
			}
			delim, err := argString(args[1], "string.join delimiter")
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(list.Elements))
			for i, e := range list.Elements {
				s, err := argString(e, "string.join elements")
				if err != nil {
					return nil, err
				}
				parts[i] = s
			}
			return runtime.Str(strings.Join(parts, delim)), nil
		}),
	}
}

// @std.regex — match tests the whole string, search tests for any
// occurrence.

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("Invalid regex: %v", err)
	}
	return re, nil
}

func regexNatives() table {
	return table{
		"match": native("match", 2, func(args []runtime.Value) (runtime.Value, error) {
			pattern, err := argString(args[0], "regex.match pattern")
			if err != nil {
				return nil, err
			}
			text, err := argString(args[1], "regex.match text")
			if err != nil {
				return nil, err
			}
			re, err := compilePattern("^(?:" + pattern + ")$")
			if err != nil {
				return nil, err
			}
			return runtime.Bool(re.MatchString(text)), nil
		}),
		"search": native("search", 2, func(args []runtime.Value) (runtime.Value, error) {
			pattern, err := argString(args[0], "regex.search pattern")
			if err != nil {
				return nil, err
			}
			text, err := argString(args[1], "regex.search text")
			if err != nil {
				return nil, err
			}
			re, err := compilePattern(pattern)
			if err != nil {
				return nil, err
			}
			return runtime.Bool(re.MatchString(text)), nil
		}),
		"replace": native("replace", 3, func(args []runtime.Value) (runtime.Value, error) {
			pattern, err := argString(args[0], "regex.replace pattern")
			if err != nil {
				return nil, err
			}
			text, err := argString(args[1], "regex.replace text")
			if err != nil {
				return nil, err
			}
			replacement, err := argString(args[2], "regex.replace replacement")
			if err != nil {
				return nil, err
			}
			re, err := compilePattern(pattern)
			if err != nil {
				return nil, err
			}
			return runtime.Str(re.ReplaceAllString(text, replacement)), nil
		}),
		"split": native("split", 2, func(args []runtime.Value) (runtime.Value, error) {
			pattern, err := argString(args[0], "regex.split pattern")
			if err != nil {
				return nil, err
			}
			text, err := argString(args[1], "regex.split text")
			if err != nil {
				return nil, err
			}
			re, err := compilePattern(pattern)
			if err != nil {
				return nil, err
			}
			list := &runtime.ListValue{}
			for _, part := range re.Split(text, -1) {
				list.Elements = append(list.Elements, runtime.Str(part))
			}
			return list, nil
		}),
	}
}
