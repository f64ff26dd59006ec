// Package profile describes the configurations that produce terminal surfaces.
package profile

import (
	"github.com/google/uuid"
)

// ID identifies the profile a surface was created from.
type ID = uuid.UUID

// Nil is the zero profile id.
var Nil = uuid.Nil

// namespace seeds name-derived ids so a profile keeps its id across config reloads
// when the file does not pin one.
var namespace = uuid.MustParse("6f1c2d7e-3b4a-5c8d-9e0f-a1b2c3d4e5f6")

// DefaultScrollbackLines is used when a profile leaves scrollback_lines unset.
const DefaultScrollbackLines = 2000

// Profile is one named way of starting a terminal session.
type Profile struct {
	ID              ID     `yaml:"id"`
	Name            string `yaml:"name"`
	Command         string `yaml:"command"`
	Dir             string `yaml:"dir"`
	CloseOnExit     *bool  `yaml:"close_on_exit"`
	ScrollbackLines int    `yaml:"scrollback_lines"`
}

// Settings is the part of a profile that can be pushed into a live surface.
type Settings struct {
	Title           string
	CloseOnExit     bool
	ScrollbackLines int
}

// New returns a profile with a name-derived id.
func New(name, command string) Profile {
	p := Profile{Name: name, Command: command}
	p.EnsureID()
	return p
}

// EnsureID fills in a name-derived id if none was configured.
func (p *Profile) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = uuid.NewSHA1(namespace, []byte(p.Name))
	}
}

// Settings resolves the live settings for surfaces of this profile.
func (p Profile) Settings() Settings {
	s := Settings{
		Title:           p.Name,
		CloseOnExit:     true,
		ScrollbackLines: p.ScrollbackLines,
	}
	if p.CloseOnExit != nil {
		s.CloseOnExit = *p.CloseOnExit
	}
	if s.ScrollbackLines <= 0 {
		s.ScrollbackLines = DefaultScrollbackLines
	}
	return s
}
