package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-errors/errors"
)

var (
	// ErrNoProfiles is returned when a config defines no usable profile.
	ErrNoProfiles = errors.New("no profiles configured")
	// ErrUnknownProfile is returned when a profile name does not resolve.
	ErrUnknownProfile = errors.New("unknown profile")
)

func unknownProfile(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Validate checks keybindings, profiles and theme colors.
func Validate(cfg *Config) error {
	if err := ValidateKeys(&cfg.Keys); err != nil {
		return err
	}
	if err := validateProfiles(cfg); err != nil {
		return err
	}
	for name, color := range map[string]string{
		"active_frame":   cfg.Theme.Colors.ActiveFrame,
		"terminal_frame": cfg.Theme.Colors.TerminalFrame,
		"inactive_frame": cfg.Theme.Colors.InactiveFrame,
		"separator":      cfg.Theme.Colors.Separator,
	} {
		if !ValidateColor(color) {
			return fmt.Errorf("invalid color for %s: %q", name, color)
		}
	}
	return nil
}

func validateProfiles(cfg *Config) error {
	if len(cfg.Profiles) == 0 {
		return ErrNoProfiles
	}

	names := make(map[string]bool)
	ids := make(map[string]string)
	for _, p := range cfg.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile with id %s has no name", p.ID)
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate profile name %q", p.Name)
		}
		names[p.Name] = true

		if other, ok := ids[p.ID.String()]; ok {
			return fmt.Errorf("profiles %q and %q share id %s", other, p.Name, p.ID)
		}
		ids[p.ID.String()] = p.Name
	}

	if !names[cfg.DefaultProfile] {
		return unknownProfile(cfg.DefaultProfile)
	}
	return nil
}

// ValidateKeys checks for duplicate keybindings and invalid key strings.
func ValidateKeys(keys *KeyBindings) error {
	// Build a map of key -> action names for duplicate detection
	keyMap := make(map[string][]string)

	v := reflect.ValueOf(keys).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldName := t.Field(i).Name

		if field.Kind() != reflect.String {
			continue
		}

		keyStr := field.String()
		if keyStr == "" {
			continue
		}

		if _, err := ParseKey(keyStr); err != nil {
			return fmt.Errorf("invalid key for %s: %w", fieldName, err)
		}

		keyMap[keyStr] = append(keyMap[keyStr], fieldName)
	}

	var duplicates []string
	for key, actions := range keyMap {
		if len(actions) > 1 {
			duplicates = append(duplicates, fmt.Sprintf("key %q is used by: %s", key, strings.Join(actions, ", ")))
		}
	}

	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("duplicate keybindings found:\n  %s", strings.Join(duplicates, "\n  "))
	}

	return nil
}

// ValidateColor checks if a color string is valid for gocui.
func ValidateColor(color string) bool {
	_, ok := colorNames[strings.ToLower(color)]
	return ok
}
