package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

func optionalString(v cue.Value, name string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", false, nil
	}
	if f.Kind() != cue.StringKind {
		return "", false, fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", false, fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return s, true, nil
}

func optionalBool(v cue.Value, name string) (bool, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, false, nil
	}
	if f.Kind() != cue.BoolKind {
		return false, false, fmt.Errorf("invalid type for field: %s (expected bool)", name)
	}
	var b bool
	if err := f.Decode(&b); err != nil {
		return false, false, fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return b, true, nil
}

func optionalInt(v cue.Value, name string) (int, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return 0, false, nil
	}
	if f.Kind() != cue.IntKind {
		return 0, false, fmt.Errorf("invalid type for field: %s (expected int)", name)
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return 0, false, fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return n, true, nil
}

func optionalStringList(v cue.Value, name string) ([]string, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil, false, nil
	}
	if f.Kind() != cue.ListKind {
		return nil, false, fmt.Errorf("invalid type for field: %s (expected list)", name)
	}
	var out []string
	if err := f.Decode(&out); err != nil {
		return nil, false, fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return out, true, nil
}
