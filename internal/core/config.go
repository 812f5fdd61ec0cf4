package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/jo-hoe/whiteborder/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort              = 8080
	defaultAssetsDir         = "dist"
	defaultIconSource        = "internal/frontend/views/icon.svg"
	defaultIconBackground    = "#ffffff"
	defaultAppleTouchPrimary = 180
)

var (
	defaultAppleTouchSizes = []int{120, 152, 167, 180}
	defaultManifestSizes   = []int{192, 512}
)

// IconsConfig describes the build-time icon generation.
type IconsConfig struct {
	Source            string `yaml:"source" validate:"required"`
	OutputDir         string `yaml:"outputDir" validate:"required"`
	Background        string `yaml:"background" validate:"hexcolor"`
	AppleTouchSizes   []int  `yaml:"appleTouchSizes" validate:"dive,min=16,max=4096"`
	AppleTouchPrimary int    `yaml:"appleTouchPrimary" validate:"min=16,max=4096"`
	ManifestSizes     []int  `yaml:"manifestSizes" validate:"dive,min=16,max=4096"`
}

type ServiceConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
	// BasePath mounts every route under a prefix, e.g. "/whiteborder".
	BasePath string `yaml:"basePath"`
	// AssetsDir holds wasm_exec.js, app.wasm and the generated icons.
	AssetsDir string      `yaml:"assetsDir" validate:"required"`
	Icons     IconsConfig `yaml:"icons"`
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	config.applyDefaults()
	return config
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := common.ValidateStruct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (config *ServiceConfig) applyDefaults() {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.AssetsDir == "" {
		config.AssetsDir = defaultAssetsDir
	}
	config.BasePath = normalizeBasePath(config.BasePath)

	icons := &config.Icons
	if icons.Source == "" {
		icons.Source = defaultIconSource
	}
	if icons.OutputDir == "" {
		icons.OutputDir = config.AssetsDir
	}
	if icons.Background == "" {
		icons.Background = defaultIconBackground
	}
	if icons.AppleTouchSizes == nil {
		icons.AppleTouchSizes = append([]int(nil), defaultAppleTouchSizes...)
	}
	if icons.AppleTouchPrimary == 0 {
		icons.AppleTouchPrimary = defaultAppleTouchPrimary
	}
	if icons.ManifestSizes == nil {
		icons.ManifestSizes = append([]int(nil), defaultManifestSizes...)
	}
}

// normalizeBasePath returns "" for the root and "/prefix" otherwise.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
