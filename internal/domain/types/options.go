package types

// OptionSet is the assembled payload of user choices attached to an export
// request. Keys are option names; values are strings, bools or numbers.
type OptionSet map[string]any

// Clone returns a shallow copy of the option set.
func (o OptionSet) Clone() OptionSet {
	out := make(OptionSet, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// AssembleConfig selects how current field values are turned into an OptionSet.
type AssembleConfig struct {
	// AsStructured keeps typed values (bool, number) instead of raw strings.
	AsStructured bool
	// Full includes fields whose value is empty.
	Full bool
	// BooleanValuesAsNumbers encodes true/false as 1/0.
	BooleanValuesAsNumbers bool
}
