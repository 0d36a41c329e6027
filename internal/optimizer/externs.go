package optimizer

import (
	"encoding/json"
	"fmt"
)

// ExternKind classifies one exported binding of an external module, as
// declared in an externs descriptor file (ported from
// original_source/crates/oveo/src/externs.rs's tagged ExternValue enum).
type ExternKind uint8

const (
	ExternConst ExternKind = iota
	ExternFunction
	ExternNamespace
)

// ArgSpec is one positional argument's annotation hints within a Function
// extern's Arguments list (spec.md §3/§4.1, ported from externs.rs's
// ExternFunctionArgument): Hoist/Scope apply to the argument expression
// at this position only, the same as if that one argument (not the whole
// call) had been individually wrapped in `hoist(...)`/`scope(...)`.
type ArgSpec struct {
	Hoist bool
	Scope bool
}

// ExternValue describes one export of a module the inline-extern pass
// is told about out of band (spec.md §4.3). A Const export carries the
// literal JSON value call sites referencing it should be replaced with.
// A Function export carries, per argument position, the call-site
// annotation hints the hoist pass should apply automatically to every
// call of it — Arguments[i] describes call.Args[i], not the call's own
// return value. A Namespace export nests further ExternValues under
// member names, for `import * as ns from "external"` access patterns
// (`ns.FOO`).
type ExternValue struct {
	Kind      ExternKind
	Literal   any
	Arguments []ArgSpec
	Members   map[string]*ExternValue
}

type externFile struct {
	Type      string                     `json:"type"`
	Value     json.RawMessage            `json:"value,omitempty"`
	Arguments []argSpecFile              `json:"arguments,omitempty"`
	Members   map[string]json.RawMessage `json:"members,omitempty"`
}

type argSpecFile struct {
	Hoist bool `json:"hoist,omitempty"`
	Scope bool `json:"scope,omitempty"`
}

// moduleFile is one entry of the top-level externs descriptor: keyed by
// module specifier string (spec.md §3's "rooted at module specifier
// strings"). Exports holds the `{"exports": {name: descriptor}}` form;
// the bare-shorthand form ("is shorthand for {exports:…}") is handled by
// decodeModuleFile falling back to treating the whole raw object as the
// exports map when no "exports" key is present.
type moduleFile struct {
	Type    string                     `json:"type,omitempty"`
	Exports map[string]json.RawMessage `json:"exports,omitempty"`
}

// ExternsFormatError reports a malformed externs descriptor (spec.md §7).
type ExternsFormatError struct {
	Path string
	Err  error
}

func (e *ExternsFormatError) Error() string {
	return fmt.Sprintf("malformed externs descriptor %s: %v", e.Path, e.Err)
}

func (e *ExternsFormatError) Unwrap() error { return e.Err }

// ParseExterns decodes a full externs descriptor file — a top-level
// object mapping module specifier strings to that module's export tree
// (spec.md §3, §6; wire example at spec.md §8 scenario S5:
// `{"m":{"exports":{"K":{"type":"const","value":"v"}}}}`) — into one
// ExternsCatalog. Any single module's malformed descriptor fails the
// whole call; the caller's existing registry is left untouched.
func ParseExterns(path string, data []byte) (ExternsCatalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ExternsFormatError{Path: path, Err: err}
	}
	out := make(ExternsCatalog, len(raw))
	for specifier, moduleRaw := range raw {
		exports, err := decodeModuleFile(moduleRaw)
		if err != nil {
			return nil, &ExternsFormatError{Path: path, Err: fmt.Errorf("%s: %w", specifier, err)}
		}
		out[specifier] = exports
	}
	return out, nil
}

func decodeModuleFile(raw json.RawMessage) (map[string]*ExternValue, error) {
	var mod moduleFile
	if err := json.Unmarshal(raw, &mod); err != nil {
		return nil, err
	}
	exportsRaw := mod.Exports
	if exportsRaw == nil {
		// Shorthand form: the module value itself is the exports map.
		if err := json.Unmarshal(raw, &exportsRaw); err != nil {
			return nil, err
		}
	}
	out := make(map[string]*ExternValue, len(exportsRaw))
	for name, fieldRaw := range exportsRaw {
		var f externFile
		if err := json.Unmarshal(fieldRaw, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		v, err := decodeExternValue(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func decodeExternValue(f externFile) (*ExternValue, error) {
	switch f.Type {
	case "const":
		var lit any
		if len(f.Value) > 0 {
			if err := json.Unmarshal(f.Value, &lit); err != nil {
				return nil, err
			}
		}
		return &ExternValue{Kind: ExternConst, Literal: lit}, nil
	case "function":
		args := make([]ArgSpec, len(f.Arguments))
		for i, a := range f.Arguments {
			args[i] = ArgSpec{Hoist: a.Hoist, Scope: a.Scope}
		}
		return &ExternValue{Kind: ExternFunction, Arguments: args}, nil
	case "namespace":
		members := make(map[string]*ExternValue, len(f.Members))
		for name, raw := range f.Members {
			var nested externFile
			if err := json.Unmarshal(raw, &nested); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			v, err := decodeExternValue(nested)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			members[name] = v
		}
		return &ExternValue{Kind: ExternNamespace, Members: members}, nil
	default:
		return nil, fmt.Errorf("unknown extern type %q", f.Type)
	}
}
