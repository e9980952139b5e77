package llconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Token is a single element of an access-right array. It is either a
// symbolic keyword ("read_file", "v3.all", "abi.read_execute") or a
// raw kernel bit, accepted in both surfaces as the forward-compat
// escape hatch described in spec §3.1. Raw bits bypass keyword
// validation entirely: they are ORed straight into the resolved set.
type Token struct {
	Word  string
	Bit   uint64
	IsBit bool
}

// UnmarshalJSON accepts either a JSON string or a JSON integer.
func (t *Token) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Word = s
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("access keyword must be a string or a non-negative uint64, got %q", data)
	}
	t.IsBit = true
	t.Bit = n
	return nil
}

// UnmarshalTOML accepts a TOML string or a TOML integer.
func (t *Token) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		t.Word = v
	case int64:
		if v < 0 {
			return fmt.Errorf("access keyword integer must be non-negative, got %d", v)
		}
		t.IsBit = true
		t.Bit = uint64(v)
	default:
		return fmt.Errorf("access keyword must be a string or integer, got %T", value)
	}
	return nil
}

// String renders the token the way it appeared in source, for error
// messages.
func (t Token) String() string {
	if t.IsBit {
		return strconv.FormatUint(t.Bit, 10)
	}
	return t.Word
}

// ParentToken is a single element of a `parent` array: either a
// filesystem path or an already-open file descriptor, supplied in
// integer form (spec §4.5 step 4).
type ParentToken struct {
	Path string
	FD   int
	IsFD bool
}

// UnmarshalJSON accepts a JSON string (a path) or a JSON integer (an
// fd the caller already owns).
func (p *ParentToken) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.Path = s
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parent entry must be a string path or an integer fd, got %q", data)
	}
	p.IsFD = true
	p.FD = int(n)
	return nil
}

// UnmarshalTOML accepts a TOML string (a path) or a TOML integer (an
// fd the caller already owns).
func (p *ParentToken) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		p.Path = v
	case int64:
		p.IsFD = true
		p.FD = int(v)
	default:
		return fmt.Errorf("parent entry must be a string or integer, got %T", value)
	}
	return nil
}

func (p ParentToken) String() string {
	if p.IsFD {
		return strconv.Itoa(p.FD)
	}
	return p.Path
}
