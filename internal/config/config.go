package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Dataset struct {
		// Optional JSON file loaded at startup and watched for changes.
		Path              string `yaml:"path" json:"path"`
		AutoReloadSeconds int    `yaml:"auto_reload_seconds" json:"auto_reload_seconds"`
		MaxUploadBytes    int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	} `yaml:"dataset" json:"dataset"`

	View struct {
		DefaultSort string `yaml:"default_sort" json:"default_sort"`
		Locale      string `yaml:"locale" json:"locale"`
	} `yaml:"view" json:"view"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
