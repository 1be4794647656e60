package stdlib

import (
	"bufio"
	"fmt"
	"os"
	goruntime "runtime"
	"time"

	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.time

func timeNatives() table {
	return table{
		"now": native("now", 0, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(time.Now().UnixMilli()) / 1000.0), nil
		}),
		"sleep": native("sleep", 1, func(args []runtime.Value) (runtime.Value, error) {
			if ms, ok := args[0].(*runtime.NumberValue); ok {
				time.Sleep(time.Duration(ms.Val) * time.Millisecond)
			}
			return runtime.Nil, nil
		}),
	}
}

// @std.os

func osNatives() table {
	return table{
		"name": native("name", 0, func(args []runtime.Value) (runtime.Value, error) {
			switch goruntime.GOOS {
			case "windows":
				return runtime.Str("Windows"), nil
			case "darwin":
				return runtime.Str("macOS"), nil
			case "linux":
				return runtime.Str("Linux"), nil
			}
			return runtime.Str("Unknown"), nil
		}),
		"cwd": native("cwd", 0, func(args []runtime.Value) (runtime.Value, error) {
			dir, err := os.Getwd()
			if err != nil {
				return runtime.Nil, nil
			}
			return runtime.Str(dir), nil
		}),
		"env": native("env", 1, func(args []runtime.Value) (runtime.Value, error) {
			key, ok := args[0].(*runtime.StringValue)
			if !ok {
				return runtime.Nil, nil
			}
			if val, found := os.LookupEnv(key.Val); found {
				return runtime.Str(val), nil
			}
			return runtime.Nil, nil
		}),
		"exit": native("exit", 1, func(args []runtime.Value) (runtime.Value, error) {
			code := 0
			if n, ok := args[0].(*runtime.NumberValue); ok {
				code = int(n.Val)
			}
			os.Exit(code)
			return runtime.Nil, nil
		}),
	}
}

// @std.io

var stdinReader = bufio.NewReader(os.Stdin)

func readLine() (runtime.Value, error) {
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return runtime.Nil, nil
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return runtime.Str(line), nil
}

func ioNatives() table {
	return table{
		"input": native("input", 0, func(args []runtime.Value) (runtime.Value, error) {
			return readLine()
		}),
		"ask": native("ask", 1, func(args []runtime.Value) (runtime.Value, error) {
			if prompt, ok := args[0].(*runtime.StringValue); ok {
				fmt.Print(prompt.Val)
			}
			return readLine()
		}),
	}
}

// @std.fs — failures read as nil/false rather than runtime errors, so
// scripts can probe paths without maybe blocks.

func fsNatives() table {
	return table{
		"exists": native("exists", 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := argString(args[0], "fs.exists path")
			if err != nil {
				return nil, err
			}
			_, statErr := os.Stat(path)
			return runtime.Bool(statErr == nil), nil
		}),
		"is_dir": native("is_dir", 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := argString(args[0], "fs.is_dir path")
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(path)
			return runtime.Bool(statErr == nil && info.IsDir()), nil
		}),
		"read_file": native("read_file", 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := argString(args[0], "fs.read_file path")
			if err != nil {
				return nil, err
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return runtime.Nil, nil
			}
			return runtime.Str(string(data)), nil
		}),
		"write_file": native("write_file", 2, func(args []runtime.Value) (runtime.Value, error) {
			path, err := argString(args[0], "fs.write_file path")
			if err != nil {
				return nil, err
			}
			data, err := argString(args[1], "fs.write_file data")
			if err != nil {
				return nil, err
			}
			return runtime.Bool(os.WriteFile(path, []byte(data), 0o644) == nil), nil
		}),
		"list_dir": native("list_dir", 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := argString(args[0], "fs.list_dir path")
			if err != nil {
				return nil, err
			}
			entries, readErr := os.ReadDir(path)
			if readErr != nil {
				return runtime.Nil, nil
			}
			list := &runtime.ListValue{}
			for _, entry := range entries {
				list.Elements = append(list.Elements, runtime.Str(entry.Name()))
			}
			return list, nil
		}),
	}
}
