package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/golobby/cast"

	"dsexport/internal/domain"
)

// ExportTypeField names the hidden field carrying the selected format.
const ExportTypeField = "exportType"

// ErrUnknownField is returned by Set for a field that was never declared.
var ErrUnknownField = errors.New("unknown form field")

// Kind is the input type of a field.
type Kind int

const (
	Text Kind = iota
	Hidden
	Checkbox
	Number
)

// Field is one named input and its current raw value.
type Field struct {
	Name  string
	Kind  Kind
	Value string
}

var (
	boolType    = reflect.TypeOf(true)
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
)

// Form is an ordered set of fields. It is safe for concurrent use.
type Form struct {
	mu     sync.Mutex
	fields []Field
}

// New returns a form declaring fields in order.
func New(fields ...Field) *Form {
	f := &Form{}
	for _, fd := range fields {
		f.Declare(fd)
	}
	return f
}

// Declare adds fd, replacing any field with the same name.
func (f *Form) Declare(fd Field) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fd.Kind == Checkbox {
		fd.Value = normalizeBool(fd.Value)
	}
	for i := range f.fields {
		if f.fields[i].Name == fd.Name {
			f.fields[i] = fd
			return
		}
	}
	f.fields = append(f.fields, fd)
}

// Set updates the raw value of a declared field.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.fields {
		if f.fields[i].Name != name {
			continue
		}
		if f.fields[i].Kind == Checkbox {
			value = normalizeBool(value)
		}
		f.fields[i].Value = value
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Fields returns a copy of the declared fields in order.
func (f *Form) Fields() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Field(nil), f.fields...)
}

// AssembleOptions collects the current field values into a fresh option set.
func (f *Form) AssembleOptions(cfg domain.AssembleConfig) domain.OptionSet {
	fields := f.Fields()
	out := make(domain.OptionSet, len(fields))
	for _, fd := range fields {
		if !cfg.Full && isEmpty(fd) {
			continue
		}
		out[fd.Name] = value(fd, cfg)
	}
	return out
}

var _ domain.OptionAssembler = (*Form)(nil)

// Infer declares a field from a "key=value" style pair, guessing its kind
// from the value: booleans become checkboxes, numbers become number inputs.
func Infer(name, raw string) Field {
	if _, err := strconv.ParseBool(raw); err == nil && !isNumeric(raw) {
		return Field{Name: name, Kind: Checkbox, Value: raw}
	}
	if isNumeric(raw) {
		return Field{Name: name, Kind: Number, Value: raw}
	}
	return Field{Name: name, Kind: Text, Value: raw}
}

// ParsePair splits "key=value". A bare key is a checked checkbox.
func ParsePair(s string) (Field, error) {
	key, raw, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Field{}, fmt.Errorf("invalid option %q: want key=value", s)
	}
	if !found {
		return Field{Name: key, Kind: Checkbox, Value: "true"}, nil
	}
	return Infer(key, raw), nil
}

func value(fd Field, cfg domain.AssembleConfig) any {
	switch fd.Kind {
	case Checkbox:
		on := fd.Value == "true"
		switch {
		case cfg.BooleanValuesAsNumbers && cfg.AsStructured:
			if on {
				return 1
			}
			return 0
		case cfg.BooleanValuesAsNumbers:
			if on {
				return "1"
			}
			return "0"
		case cfg.AsStructured:
			return on
		}
		return fd.Value
	case Number:
		if !cfg.AsStructured {
			return fd.Value
		}
		if v, err := cast.FromType(fd.Value, int64Type); err == nil {
			return v
		}
		if v, err := cast.FromType(fd.Value, float64Type); err == nil {
			return v
		}
		return fd.Value
	default:
		return fd.Value
	}
}

func isEmpty(fd Field) bool {
	if fd.Kind == Checkbox {
		return fd.Value != "true"
	}
	return fd.Value == ""
}

func normalizeBool(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "y":
		return "true"
	case "", "off", "no", "n":
		return "false"
	}
	if v, err := cast.FromType(raw, boolType); err == nil {
		return strconv.FormatBool(v.(bool))
	}
	return "false"
}

func isNumeric(raw string) bool {
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}
