package signnow

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexInt decodes an integer the upstream may send as a number, a numeric
// string, or null. Anything that does not parse decodes to an invalid value.
type FlexInt struct {
	Value int64
	Valid bool
}

// Int returns a valid FlexInt holding v.
func Int(v int64) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return nil
		}
		raw = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = Int(n)
		return nil
	}
	fl, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(fl) || math.IsInf(fl, 0) || fl < math.MinInt64 || fl >= math.MaxInt64 {
		return nil
	}
	*f = Int(int64(fl))
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, f.Value, 10), nil
}

// Ptr returns the value as a pointer, nil when absent.
func (f FlexInt) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns the value, or def when absent.
func (f FlexInt) Or(def int64) int64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// FlexBool decodes a flag the upstream may send as a boolean, a number or
// a string. Unrecognized values decode to false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		*b = true
	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil && n != 0 && !math.IsNaN(n) {
			*b = true
			return nil
		}
		*b = false
	}
	return nil
}

// RoleNames decodes a role list sent either as strings or as objects
// carrying a name.
type RoleNames []string

func (r *RoleNames) UnmarshalJSON(data []byte) error {
	*r = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	names := make(RoleNames, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			if name != "" {
				names = append(names, name)
			}
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Name != "" {
			names = append(names, obj.Name)
		}
	}
	*r = names
	return nil
}
