package terrain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Seed is a world seed. In text form it is a decimal integer; any other
// string is hashed with HashSeed, so "meadow" names a world as well as 1337.
type Seed int64

// ParseSeed reads a seed from text.
func ParseSeed(text string) Seed {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Seed(v)
	}
	return Seed(HashSeed(text))
}

func (s Seed) String() string { return strconv.FormatInt(int64(s), 10) }

// MarshalText implements encoding.TextMarshaler.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Seed) UnmarshalText(b []byte) error {
	*s = ParseSeed(string(b))
	return nil
}

// MarshalJSON writes the seed as a JSON number.
func (s Seed) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (s *Seed) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*s = ParseSeed(text)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Seed(v)
	return nil
}
