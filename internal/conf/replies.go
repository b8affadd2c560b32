package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/tg-awaybot/internal/biz/usecase"

	"gopkg.in/yaml.v3"
)

// RepliesConfig contains all reply texts loaded from YAML
type RepliesConfig struct {
	OfflineDefault     string `yaml:"offline_default"`
	TempOfflineDefault string `yaml:"temp_offline_default"`
	PublicHelp         string `yaml:"public_help"`
	OwnerHelp          string `yaml:"owner_help"`
	AnnotationTemplate string `yaml:"annotation_template"`
	ExpiryNotice       string `yaml:"expiry_notice"`
}

// LoadRepliesConfig loads the reply texts from a YAML file
func LoadRepliesConfig(configPath string) (*RepliesConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/replies.yaml",
			"./configs/replies.yaml",
			"/etc/tg-awaybot/replies.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "replies.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		fmt.Println("[Config] No replies.yaml found, using defaults")
		return DefaultRepliesConfig(), nil
	}

	fmt.Printf("[Config] Loading replies from: %s\n", loadedPath)

	var config RepliesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse replies.yaml: %w", err)
	}

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// DefaultRepliesConfig returns the built-in reply texts
func DefaultRepliesConfig() *RepliesConfig {
	texts := usecase.DefaultReplyTexts()
	return &RepliesConfig{
		OfflineDefault:     texts.OfflineDefault,
		TempOfflineDefault: texts.TempOfflineDefault,
		PublicHelp:         texts.PublicHelp,
		OwnerHelp:          texts.OwnerHelp,
		AnnotationTemplate: texts.AnnotationTemplate,
		ExpiryNotice:       texts.ExpiryNotice,
	}
}

// fillDefaults fills in default values for empty fields
func (c *RepliesConfig) fillDefaults() {
	defaults := DefaultRepliesConfig()

	if c.OfflineDefault == "" {
		c.OfflineDefault = defaults.OfflineDefault
	}
	if c.TempOfflineDefault == "" {
		c.TempOfflineDefault = defaults.TempOfflineDefault
	}
	if c.PublicHelp == "" {
		c.PublicHelp = defaults.PublicHelp
	}
	if c.OwnerHelp == "" {
		c.OwnerHelp = defaults.OwnerHelp
	}
	if c.AnnotationTemplate == "" {
		c.AnnotationTemplate = defaults.AnnotationTemplate
	}
	if c.ExpiryNotice == "" {
		c.ExpiryNotice = defaults.ExpiryNotice
	}
}

// ToReplyTexts converts to the usecase reply texts
func (c *RepliesConfig) ToReplyTexts() usecase.ReplyTexts {
	if c == nil {
		return usecase.DefaultReplyTexts()
	}
	return usecase.ReplyTexts{
		OfflineDefault:     c.OfflineDefault,
		TempOfflineDefault: c.TempOfflineDefault,
		PublicHelp:         c.PublicHelp,
		OwnerHelp:          c.OwnerHelp,
		AnnotationTemplate: c.AnnotationTemplate,
		ExpiryNotice:       c.ExpiryNotice,
	}
}
