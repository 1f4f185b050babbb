package models

// TriState models the registration export's boolean-as-text indicator fields
// ("Sim"/"Não", frequently absent). Unknown is distinct from No: an absent
// column stays Unknown and round-trips to the empty string.
type TriState int8

const (
	TriUnknown TriState = iota
	TriNo
	TriYes
)

// ParseTriState converts the legacy string representation. Only the exact
// value "Sim" is affirmative, matching how the source system stores flags.
func ParseTriState(s string) TriState {
	switch s {
	case "":
		return TriUnknown
	case "Sim":
		return TriYes
	default:
		return TriNo
	}
}

// LegacyString returns the storage representation.
func (t TriState) LegacyString() string {
	switch t {
	case TriYes:
		return "Sim"
	case TriNo:
		return "Não"
	default:
		return ""
	}
}

func (t TriState) Bool() bool {
	return t == TriYes
}

// MarshalJSON keeps the wire format identical to the legacy strings the
// front-end already renders.
func (t TriState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.LegacyString() + `"`), nil
}

func (t *TriState) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*t = ParseTriState(s)
	return nil
}
