package config

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/golobby/cast"
)

// ApplyEnvOverrides sets every field tagged `env:"NAME"` from the variable
// DSEXPORT_NAME when lookup finds it.
func (c *Config) ApplyEnvOverrides(lookup func(string) (string, bool)) error {
	return applyEnv(reflect.ValueOf(c).Elem(), lookup)
}

func applyEnv(v reflect.Value, lookup func(string) (string, bool)) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		sf := t.Field(i)
		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, lookup); err != nil {
				return err
			}
			continue
		}
		tag := sf.Tag.Get("env")
		if tag == "" {
			continue
		}
		name := EnvPrefix + "_" + tag
		raw, ok := lookup(name)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(raw))
	}
	converted, err := cast.FromType(raw, field.Type())
	if err != nil {
		return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
	}
	field.Set(reflect.ValueOf(converted))
	return nil
}
