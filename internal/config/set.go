package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownKey = errors.New("config: unknown key")

// Set assigns value to the field at a dotted yaml key such as
// "collision.restitution". It does not validate the result.
func (c *Config) Set(key string, value float64) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
	}

	var node any = value
	for i := len(parts) - 1; i >= 0; i-- {
		node = map[string]any{parts[i]: node}
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnknownKey, key, err)
	}
	return nil
}

// Clone copies c deeply enough that Set on the copy leaves c untouched.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}
