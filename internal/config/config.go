// Package config loads persisted settings from an ini-format file and
// exposes the Settings struct the pipeline driver and renderer consult on
// every call.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/solvaholic/slacknotes/internal/render"
)

// Config wraps an ini file with dotted-key accessors: "section.key" splits
// on the last dot, so a key like "render.convertUserMentions" addresses
// section "render", key "convertUserMentions".
type Config struct {
	file *ini.File
}

// Load reads the configuration file from ~/.slacknotes/config. A missing
// file is not an error: it returns an empty config so every lookup falls
// through to its default.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".slacknotes", "config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{file: ini.Empty()}, nil
	}

	file, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return &Config{file: file}, nil
}

// GetString retrieves a string value from the config.
func (c *Config) GetString(key string) string {
	section, keyName := c.parseKey(key)
	if section == "" {
		return ""
	}

	sec := c.file.Section(section)
	if sec == nil {
		return ""
	}

	return sec.Key(keyName).String()
}

// GetInt retrieves an integer value from the config.
func (c *Config) GetInt(key string) (int, error) {
	val := c.GetString(key)
	if val == "" {
		return 0, nil
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}

	return intVal, nil
}

// GetBool retrieves a boolean value from the config.
func (c *Config) GetBool(key string) bool {
	val := c.GetString(key)
	if val == "" {
		return false
	}

	val = strings.ToLower(val)
	return val == "true" || val == "yes" || val == "1" || val == "on"
}

// Set writes a string value into the in-memory config and persists it to
// ~/.slacknotes/config immediately, creating the section and file as
// needed.
func (c *Config) Set(key, value string) error {
	section, keyName := c.parseKey(key)
	if section == "" {
		return fmt.Errorf("invalid config key %q: expected section.key", key)
	}

	c.file.Section(section).Key(keyName).SetValue(value)
	return c.save()
}

func (c *Config) save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".slacknotes")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := c.file.SaveTo(filepath.Join(dir, "config")); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// SetString loads the config file, sets key to value, and saves it back —
// a convenience wrapper for CLI commands that persist a single setting
// (e.g. `slacknotes resolve` recording the last resolved workspace).
func SetString(key, value string) error {
	c, err := Load()
	if err != nil {
		return err
	}
	return c.Set(key, value)
}

// HasKey checks if a key exists in the config.
func (c *Config) HasKey(key string) bool {
	section, keyName := c.parseKey(key)
	if section == "" {
		return false
	}

	sec := c.file.Section(section)
	if sec == nil {
		return false
	}

	return sec.HasKey(keyName)
}

// parseKey splits a dotted key into section and key name using the last dot
// as the separator, so section names may themselves contain dots.
func (c *Config) parseKey(key string) (string, string) {
	lastDot := strings.LastIndex(key, ".")
	if lastDot == -1 {
		return "", ""
	}

	section := key[:lastDot]
	keyName := key[lastDot+1:]

	return section, keyName
}

// GetStringWithFallback retrieves a string value with a fallback default.
func (c *Config) GetStringWithFallback(key, fallback string) string {
	if c.HasKey(key) {
		return c.GetString(key)
	}
	return fallback
}

// GetIntWithFallback retrieves an int value with a fallback default.
func (c *Config) GetIntWithFallback(key string, fallback int) int {
	if c.HasKey(key) {
		val, err := c.GetInt(key)
		if err == nil {
			return val
		}
	}
	return fallback
}

// GetBoolWithFallback retrieves a bool value with a fallback default, used
// for every render.* toggle below since an absent key means "use the
// documented default" rather than false.
func (c *Config) GetBoolWithFallback(key string, fallback bool) bool {
	if c.HasKey(key) {
		return c.GetBool(key)
	}
	return fallback
}

// Settings is the resolved, typed view of every recognized configuration
// option. generation increments on every Bumped call (made by
// pipeline.Driver.UpdateSettings) so the pipeline's
// memoization cache can detect that previously cached output is stale.
type Settings struct {
	DetectCodeBlocks    bool
	ConvertUserMentions bool
	ReplaceEmoji        bool
	ParseSlackTimes     bool
	HighlightThreads    bool
	ConvertSlackLinks   bool
	MaxLines            int
	TimeZone            string
	FrontmatterCssClass string
	FrontmatterTitle    string
	Debug               bool

	generation int
}

const (
	defaultMaxLines            = 10000
	defaultFrontmatterCssClass = "slack-conversation"
)

// Default returns the documented default settings.
func Default() Settings {
	return Settings{
		DetectCodeBlocks:    true,
		ConvertUserMentions: true,
		ReplaceEmoji:        true,
		ParseSlackTimes:     true,
		HighlightThreads:    true,
		ConvertSlackLinks:   true,
		MaxLines:            defaultMaxLines,
		FrontmatterCssClass: defaultFrontmatterCssClass,
	}
}

// FromConfig resolves Settings from a loaded Config, falling back to
// Default() for every absent key.
func FromConfig(c *Config) Settings {
	d := Default()
	return Settings{
		DetectCodeBlocks:    c.GetBoolWithFallback("render.detectCodeBlocks", d.DetectCodeBlocks),
		ConvertUserMentions: c.GetBoolWithFallback("render.convertUserMentions", d.ConvertUserMentions),
		ReplaceEmoji:        c.GetBoolWithFallback("render.replaceEmoji", d.ReplaceEmoji),
		ParseSlackTimes:     c.GetBoolWithFallback("render.parseSlackTimes", d.ParseSlackTimes),
		HighlightThreads:    c.GetBoolWithFallback("render.highlightThreads", d.HighlightThreads),
		ConvertSlackLinks:   c.GetBoolWithFallback("render.convertSlackLinks", d.ConvertSlackLinks),
		MaxLines:            c.GetIntWithFallback("render.maxLines", d.MaxLines),
		TimeZone:            c.GetStringWithFallback("render.timeZone", d.TimeZone),
		FrontmatterCssClass: c.GetStringWithFallback("frontmatter.cssClass", d.FrontmatterCssClass),
		FrontmatterTitle:    c.GetStringWithFallback("frontmatter.title", d.FrontmatterTitle),
		Debug:               c.GetBoolWithFallback("render.debug", d.Debug),
	}
}

// Generation reports the settings revision, used as part of the
// memoization cache key so a prior Update invalidates stale entries.
func (s Settings) Generation() int {
	return s.generation
}

// Bumped returns a copy of s with its generation incremented, used whenever
// the caller replaces configuration via updateSettings.
func (s Settings) Bumped() Settings {
	s.generation++
	return s
}

// RenderOptions projects Settings onto the subset render.Options needs,
// given the resolved user and emoji maps for this call.
func (s Settings) RenderOptions(userMap, emojiMap map[string]string) render.Options {
	return render.Options{
		ConvertUserMentions: s.ConvertUserMentions,
		ReplaceEmoji:        s.ReplaceEmoji,
		ConvertSlackLinks:   s.ConvertSlackLinks,
		HighlightThreads:    s.HighlightThreads,
		DetectCodeBlocks:    s.DetectCodeBlocks,
		ParseSlackTimes:     s.ParseSlackTimes,
		TimeZone:            s.TimeZone,
		UserMap:             userMap,
		EmojiMap:            emojiMap,
	}
}
