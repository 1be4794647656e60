package stdlib

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.crypto

func cryptoNatives() table {
	return table{
		"hash": native("hash", 1, func(args []runtime.Value) (runtime.Value, error) {
			data, err := argString(args[0], "crypto.hash data")
			if err != nil {
				return nil, err
			}
			sum := sha256.Sum256([]byte(data))
			return runtime.Str(hex.EncodeToString(sum[:])), nil
		}),
		"random_bytes": native("random_bytes", 1, func(args []runtime.Value) (runtime.Value, error) {
			n, err := argNumber(args[0], "crypto.random_bytes length")
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, errors.New("crypto.random_bytes length cannot be negative.")
			}
			buf := make([]byte, int(n))
			if _, err := rand.Read(buf); err != nil {
				return runtime.Nil, nil
			}
			return runtime.Str(hex.EncodeToString(buf)), nil
		}),
	}
}

// @std.uuid

func uuidNatives() table {
	return table{
		"new": native("new", 0, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Str(uuid.NewString()), nil
		}),
		"is_valid": native("is_valid", 1, func(args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args[0], "uuid.is_valid value")
			if err != nil {
				return nil, err
			}
			_, parseErr := uuid.Parse(s)
			return runtime.Bool(parseErr == nil), nil
		}),
	}
}
