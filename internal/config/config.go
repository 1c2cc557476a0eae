// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingToken is returned when no GitHub token is configured.
	ErrMissingToken = errors.New("github token not found: set GH_TOKEN, GITHUB_TOKEN or REPOLINTER_AUTO_TOKEN")
	// ErrMissingRepository is returned when the repository to open pull requests on is unknown.
	ErrMissingRepository = errors.New("GITHUB_REPOSITORY environment variable not set")
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub   GitHubConfig
	Org      string
	Output   OutputConfig
	Window   WindowConfig
	LogLevel string
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token string
	// Repository is the owner/name that receives the summary pull request.
	Repository string
	BaseBranch string
}

// OutputConfig holds where artifacts are written.
type OutputConfig struct {
	DataDir    string
	SummaryDir string
}

// WindowConfig holds the reporting window length.
type WindowConfig struct {
	Days int
}

// LoadConfig loads configuration from the environment, reading a .env file
// from the working directory first when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	// The first variable that is set wins.
	v.BindEnv("github.token", "GH_TOKEN", "GITHUB_TOKEN", "REPOLINTER_AUTO_TOKEN")
	v.BindEnv("github.repository", "GITHUB_REPOSITORY")
	v.BindEnv("github.base_branch", "CHANGELOG_BASE_BRANCH")
	v.BindEnv("org", "CHANGELOG_ORG")
	v.BindEnv("output.data_dir", "CHANGELOG_DATA_DIR")
	v.BindEnv("output.summary_dir", "CHANGELOG_SUMMARY_DIR")
	v.BindEnv("window.days", "CHANGELOG_WINDOW_DAYS")
	v.BindEnv("log.level", "LOG_LEVEL")

	v.SetDefault("github.base_branch", "main")
	v.SetDefault("org", "DSACMS")
	v.SetDefault("output.data_dir", "changelog_data/data")
	v.SetDefault("output.summary_dir", "changelog_data/summaries")
	v.SetDefault("window.days", 7)
	v.SetDefault("log.level", "info")

	config := &Config{
		GitHub: GitHubConfig{
			Token:      v.GetString("github.token"),
			Repository: v.GetString("github.repository"),
			BaseBranch: v.GetString("github.base_branch"),
		},
		Org: v.GetString("org"),
		Output: OutputConfig{
			DataDir:    v.GetString("output.data_dir"),
			SummaryDir: v.GetString("output.summary_dir"),
		},
		Window: WindowConfig{
			Days: v.GetInt("window.days"),
		},
		LogLevel: v.GetString("log.level"),
	}

	if config.Window.Days <= 0 {
		return nil, fmt.Errorf("CHANGELOG_WINDOW_DAYS must be positive, got %d", config.Window.Days)
	}

	return config, nil
}

// ValidateGitHubConfig ensures a token is available for API access.
func ValidateGitHubConfig(config *Config) error {
	if config.GitHub.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// ValidatePublishConfig ensures everything needed to open a pull request is set.
func ValidatePublishConfig(config *Config) error {
	if err := ValidateGitHubConfig(config); err != nil {
		return err
	}
	if config.GitHub.Repository == "" {
		return ErrMissingRepository
	}
	if _, _, err := SplitRepository(config.GitHub.Repository); err != nil {
		return err
	}
	return nil
}

// SplitRepository splits "owner/repo" into its parts.
func SplitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}
