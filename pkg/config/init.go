package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// starterConfig is the document written by InitConfig. Only user-facing keys are included;
// everything else keeps its built-in default.
type starterConfig struct {
	Provider    string          `yaml:"provider"`
	Model       string          `yaml:"model"`
	Temperature float64         `yaml:"temperature"`
	CVPath      string          `yaml:"cv_path"`
	LatexEngine string          `yaml:"latex_engine"`
	OutputDir   string          `yaml:"output_dir"`
	Sender      SenderConfig    `yaml:"sender"`
	Recipient   RecipientConfig `yaml:"recipient"`
	Opening     string          `yaml:"opening"`
	Closing     string          `yaml:"closing"`
	Tone        string          `yaml:"tone"`
	TidyBody    bool            `yaml:"tidy_body"`
}

// InitConfig creates a starter configuration file. API keys are deliberately left out; use
// environment variables or the keyring.
func InitConfig(configPath string) (path string, err error) {
	// Determine config file location
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	starter := starterConfig{
		Provider:    DefaultProvider,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		CVPath:      DefaultCVPath,
		LatexEngine: DefaultLatexEngine,
		OutputDir:   DefaultOutputDir,
		Sender: SenderConfig{
			Name:    "Your Name",
			Address: []string{"123 Main Street", "Springfield"},
		},
		Opening:  DefaultOpening,
		Closing:  DefaultClosing,
		Tone:     DefaultTone,
		TidyBody: true,
	}

	var data []byte
	data, err = yaml.Marshal(starter)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal starter config")
		return path, err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
