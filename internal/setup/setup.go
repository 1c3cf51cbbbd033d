// Package setup installs the MCP server into Claude Desktop's
// configuration and reports on the local installation state.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/biomatch-omni-server/internal/config"
)

// serverName is the key under which the server registers itself in the
// client configuration.
const serverName = "biomatch"

// ClaudeDesktopConfig represents the Claude Desktop configuration file.
type ClaudeDesktopConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
}

// MCPServerConfig represents a single MCP server entry.
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options contains options for the install process.
type Options struct {
	BinaryPath  string // Path to the server binary
	DataDir     string // Data directory override
	AutoConfirm bool   // Skip confirmation prompts
}

// ClientConfigPath returns the path to Claude Desktop's config file for
// the current platform.
func ClientConfigPath() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "Claude", "claude_desktop_config.json"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// LoadClientConfig loads the existing client configuration. A missing
// file yields an empty configuration, not an error.
func LoadClientConfig(configPath string) (*ClaudeDesktopConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &ClaudeDesktopConfig{MCPServers: make(map[string]MCPServerConfig)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ClaudeDesktopConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]MCPServerConfig)
	}
	return &cfg, nil
}

// SaveClientConfig writes the client configuration back to disk.
func SaveClientConfig(configPath string, cfg *ClaudeDesktopConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Install adds or updates the server entry in the client configuration.
func Install(opts Options) error {
	configPath, err := ClientConfigPath()
	if err != nil {
		return err
	}

	cfg, err := LoadClientConfig(configPath)
	if err != nil {
		return err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		binaryPath, err = os.Executable()
		if err != nil {
			return fmt.Errorf("could not determine server binary path: %w", err)
		}
	}

	serverConfig := MCPServerConfig{
		Command: binaryPath,
		Env:     make(map[string]string),
	}
	if opts.DataDir != "" {
		serverConfig.Env["BIOMATCH_DATA_DIR"] = opts.DataDir
	}

	cfg.MCPServers[serverName] = serverConfig
	return SaveClientConfig(configPath, cfg)
}

// Status represents the current installation state.
type Status struct {
	ClientConfigured bool
	ClientConfigPath string
	ServerPath       string
	DataDir          string
	FeedbackDBExists bool
	Issues           []string
}

// GetStatus inspects the client configuration and local data directory.
func GetStatus() (*Status, error) {
	status := &Status{Issues: []string{}}

	configPath, err := ClientConfigPath()
	if err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Could not determine client config path: %v", err))
	} else {
		status.ClientConfigPath = configPath

		cfg, err := LoadClientConfig(configPath)
		if err != nil {
			status.Issues = append(status.Issues, fmt.Sprintf("Could not load client config: %v", err))
		} else if serverConfig, ok := cfg.MCPServers[serverName]; ok {
			status.ClientConfigured = true
			status.ServerPath = serverConfig.Command

			if _, err := os.Stat(serverConfig.Command); os.IsNotExist(err) {
				status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found at: %s", serverConfig.Command))
			}
			if dataDir, ok := serverConfig.Env["BIOMATCH_DATA_DIR"]; ok {
				status.DataDir = dataDir
			}
		}
	}

	if status.DataDir == "" {
		status.DataDir = config.DefaultLiteConfig().DataDir
	}

	if _, err := os.Stat(status.DataDir); os.IsNotExist(err) {
		status.Issues = append(status.Issues, fmt.Sprintf("Data directory will be created on first run: %s", status.DataDir))
	} else {
		dbPath := filepath.Join(status.DataDir, "feedback.db")
		if _, err := os.Stat(dbPath); err == nil {
			status.FeedbackDBExists = true
		}
	}

	return status, nil
}

// Validate checks whether the installed configuration is usable. The
// returned issues include warnings; only a missing server entry or
// binary makes the setup invalid.
func Validate() (bool, []string) {
	var issues []string

	configPath, err := ClientConfigPath()
	if err != nil {
		return false, append(issues, fmt.Sprintf("Cannot find client config: %v", err))
	}

	cfg, err := LoadClientConfig(configPath)
	if err != nil {
		return false, append(issues, fmt.Sprintf("Cannot load client config: %v", err))
	}

	serverConfig, ok := cfg.MCPServers[serverName]
	if !ok {
		return false, append(issues, "BIO-MATCH server not configured in Claude Desktop")
	}

	valid := true
	if info, err := os.Stat(serverConfig.Command); os.IsNotExist(err) {
		issues = append(issues, fmt.Sprintf("Server binary not found: %s", serverConfig.Command))
		valid = false
	} else if err == nil && info.Mode()&0111 == 0 {
		issues = append(issues, fmt.Sprintf("Server binary is not executable: %s", serverConfig.Command))
		valid = false
	}

	dataDir := serverConfig.Env["BIOMATCH_DATA_DIR"]
	if dataDir == "" {
		dataDir = config.DefaultLiteConfig().DataDir
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		issues = append(issues, fmt.Sprintf("Data directory will be created on first run: %s", dataDir))
	}

	return valid, issues
}
