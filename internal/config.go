package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	return c.Journal.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig describes the note folder and the naming conventions the
// reconciliation pass relies on.
type VaultConfig struct {
	// Path is the folder holding the notes. Only its immediate children are
	// scanned.
	Path string `yaml:"path"`
	// NoteExtension selects note files, matched case-insensitively.
	NoteExtension string `yaml:"note_extension"`
	// IndexSuffix classifies a note as an index when its filename
	// (case-insensitively) ends with IndexSuffix + NoteExtension.
	IndexSuffix string `yaml:"index_suffix"`
	// AuxiliaryName is the filename of the maintained unindexed listing.
	AuxiliaryName string `yaml:"auxiliary_name"`
	// SentinelTag is the tag every index note must carry.
	SentinelTag string `yaml:"sentinel_tag"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.NoteExtension, validation.Required),
		validation.Field(&c.IndexSuffix, validation.Required),
		validation.Field(&c.AuxiliaryName, validation.Required),
		validation.Field(&c.SentinelTag, validation.Required),
	); err != nil {
		return err
	}
	if !strings.HasPrefix(c.NoteExtension, ".") {
		return fmt.Errorf("vault: note_extension %q must start with a dot", c.NoteExtension)
	}
	if !strings.HasSuffix(strings.ToLower(c.AuxiliaryName), strings.ToLower(c.NoteExtension)) {
		return fmt.Errorf("vault: auxiliary_name %q must carry the note extension %q", c.AuxiliaryName, c.NoteExtension)
	}
	if !strings.HasPrefix(c.SentinelTag, "#") {
		return fmt.Errorf("vault: sentinel_tag %q must start with '#'", c.SentinelTag)
	}
	return nil
}

// AuxiliaryStem returns the auxiliary filename without its extension.
func (c *VaultConfig) AuxiliaryStem() string {
	return c.AuxiliaryName[:len(c.AuxiliaryName)-len(c.NoteExtension)]
}

// JournalConfig holds the optional run journal database configuration.
// An empty Path disables the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return nil
}

// JournalEnabled returns true when a journal database is configured.
func (c *JournalConfig) JournalEnabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:          "./vault",
			NoteExtension: ".md",
			IndexSuffix:   "index",
			AuxiliaryName: "unindexed.md",
			SentinelTag:   "#index",
		},
	}
}
