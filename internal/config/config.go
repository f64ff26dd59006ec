// Package config handles application configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdullathedruid/splitmux/internal/profile"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the directory holding config.yaml and the log file
	DataDir string `yaml:"-"`

	// SessionPrefix is prepended to the tmux sessions splitmux creates
	SessionPrefix string `yaml:"session_prefix"`

	// DefaultShell runs in profiles that do not set a command
	DefaultShell string `yaml:"default_shell"`

	// DefaultProfile names the profile used for new panes
	DefaultProfile string `yaml:"default_profile"`

	// Profiles are the ways a pane's session can be started
	Profiles []profile.Profile `yaml:"profiles"`

	// SeparatorSize is the width (or height) of the divider between split panes, in cells
	SeparatorSize int `yaml:"separator_size"`

	// Log configures the log file
	Log LogConfig `yaml:"log"`

	// Keys contains keybinding configuration
	Keys KeyBindings `yaml:"keys"`

	// Theme contains theme/appearance configuration
	Theme Theme `yaml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File overrides the default <data dir>/splitmux.log; "-" disables logging
	File string `yaml:"file"`
}

// KeyBindings holds all configurable keybindings.
type KeyBindings struct {
	SplitVertical   string `yaml:"split_vertical"`
	SplitHorizontal string `yaml:"split_horizontal"`
	FocusNext       string `yaml:"focus_next"`
	FocusPrev       string `yaml:"focus_prev"`
	ClosePane       string `yaml:"close_pane"`
	TerminalMode    string `yaml:"terminal_mode"`
	NormalMode      string `yaml:"normal_mode"`
	ScrollUp        string `yaml:"scroll_up"`
	ScrollDown      string `yaml:"scroll_down"`
	Quit            string `yaml:"quit"`
}

// Theme holds theme configuration.
type Theme struct {
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors holds color configuration.
type ThemeColors struct {
	ActiveFrame   string `yaml:"active_frame"`
	TerminalFrame string `yaml:"terminal_frame"`
	InactiveFrame string `yaml:"inactive_frame"`
	Separator     string `yaml:"separator"`
}

// DefaultSeparatorSize is one terminal cell.
const DefaultSeparatorSize = 1

// Default returns a Config with default values.
func Default() *Config {
	shell := getDefaultShell()
	return &Config{
		DataDir:        defaultDataDir(),
		SessionPrefix:  "splitmux-",
		DefaultShell:   shell,
		DefaultProfile: "shell",
		Profiles:       []profile.Profile{profile.New("shell", shell)},
		SeparatorSize:  DefaultSeparatorSize,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Keys:  DefaultKeyBindings(),
		Theme: DefaultTheme(),
	}
}

// DefaultKeyBindings returns the default keybindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		SplitVertical:   "v",
		SplitHorizontal: "s",
		FocusNext:       "l",
		FocusPrev:       "h",
		ClosePane:       "x",
		TerminalMode:    "i",
		NormalMode:      "ctrl+q",
		ScrollUp:        "pgup",
		ScrollDown:      "pgdn",
		Quit:            "q",
	}
}

// DefaultTheme returns the default theme configuration.
func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			ActiveFrame:   "blue",
			TerminalFrame: "green",
			InactiveFrame: "default",
			Separator:     "default",
		},
	}
}

// Load loads configuration from the default config file, falling back to defaults.
func Load() (*Config, error) {
	return LoadFile(Default().ConfigFile())
}

// LoadFile loads configuration from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML into a temporary struct to merge with defaults
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &fileCfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges file configuration into the default configuration.
// Only non-zero values from file are applied; a file profile list replaces
// the default one.
func mergeConfig(dst, src *Config) {
	if src.SessionPrefix != "" {
		dst.SessionPrefix = src.SessionPrefix
	}
	if src.DefaultShell != "" {
		dst.DefaultShell = src.DefaultShell
		dst.Profiles = []profile.Profile{profile.New("shell", src.DefaultShell)}
	}
	if src.DefaultProfile != "" {
		dst.DefaultProfile = src.DefaultProfile
	}
	if len(src.Profiles) > 0 {
		dst.Profiles = make([]profile.Profile, len(src.Profiles))
		copy(dst.Profiles, src.Profiles)
		for i := range dst.Profiles {
			dst.Profiles[i].EnsureID()
		}
	}
	if src.SeparatorSize > 0 {
		dst.SeparatorSize = src.SeparatorSize
	}

	mergeLog(&dst.Log, &src.Log)
	mergeKeyBindings(&dst.Keys, &src.Keys)
	mergeTheme(&dst.Theme, &src.Theme)
}

func mergeLog(dst, src *LogConfig) {
	if src.Level != "" {
		dst.Level = src.Level
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.File != "" {
		dst.File = src.File
	}
}

// mergeKeyBindings merges keybindings from src into dst.
func mergeKeyBindings(dst, src *KeyBindings) {
	pick := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	pick(&dst.SplitVertical, src.SplitVertical)
	pick(&dst.SplitHorizontal, src.SplitHorizontal)
	pick(&dst.FocusNext, src.FocusNext)
	pick(&dst.FocusPrev, src.FocusPrev)
	pick(&dst.ClosePane, src.ClosePane)
	pick(&dst.TerminalMode, src.TerminalMode)
	pick(&dst.NormalMode, src.NormalMode)
	pick(&dst.ScrollUp, src.ScrollUp)
	pick(&dst.ScrollDown, src.ScrollDown)
	pick(&dst.Quit, src.Quit)
}

// mergeTheme merges theme configuration from src into dst.
func mergeTheme(dst, src *Theme) {
	if src.Colors.ActiveFrame != "" {
		dst.Colors.ActiveFrame = src.Colors.ActiveFrame
	}
	if src.Colors.TerminalFrame != "" {
		dst.Colors.TerminalFrame = src.Colors.TerminalFrame
	}
	if src.Colors.InactiveFrame != "" {
		dst.Colors.InactiveFrame = src.Colors.InactiveFrame
	}
	if src.Colors.Separator != "" {
		dst.Colors.Separator = src.Colors.Separator
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "splitmux")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".splitmux"
	}
	return filepath.Join(home, ".config", "splitmux")
}

// getDefaultShell returns the user's default shell.
func getDefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// ConfigFile returns the path to the config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// LogFile returns the log destination, or "" when logging is disabled.
func (c *Config) LogFile() string {
	switch c.Log.File {
	case "-":
		return ""
	case "":
		return filepath.Join(c.DataDir, "splitmux.log")
	default:
		return c.Log.File
	}
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// Profile returns the profile with the given name. Profiles without a
// command run the default shell.
func (c *Config) Profile(name string) (profile.Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			if p.Command == "" {
				p.Command = c.DefaultShell
			}
			return p, nil
		}
	}
	return profile.Profile{}, unknownProfile(name)
}

// DefaultProfileEntry returns the profile new panes start with.
func (c *Config) DefaultProfileEntry() (profile.Profile, error) {
	return c.Profile(c.DefaultProfile)
}
