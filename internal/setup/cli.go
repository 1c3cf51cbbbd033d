package setup

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CLI provides the command-line interface for setup operations.
type CLI struct {
	reader *bufio.Reader
}

// NewCLI creates a new setup CLI instance.
func NewCLI() *CLI {
	return &CLI{reader: bufio.NewReader(os.Stdin)}
}

// Run executes the setup command based on the provided arguments.
func (c *CLI) Run(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	switch args[0] {
	case "claude-desktop":
		return c.installClaudeDesktop(args[1:])
	case "status":
		return c.showStatus()
	case "validate":
		return c.validate()
	case "help", "--help", "-h":
		return c.showHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		return c.showHelp()
	}
}

// showHelp displays usage information.
func (c *CLI) showHelp() error {
	help := `
BIO-MATCH MCP Server Setup

Usage:
  mcp-server setup <command> [options]

Commands:
  claude-desktop  Configure Claude Desktop integration
  status          Show current setup status
  validate        Validate current configuration

Examples:
  # Configure Claude Desktop with the running binary
  mcp-server setup claude-desktop

  # Configure with a specific binary path and data directory
  mcp-server setup claude-desktop --binary /usr/local/bin/mcp-server --data-dir ~/.biomatch

  # Check current setup status
  mcp-server setup status
`
	fmt.Println(help)
	return nil
}

// installClaudeDesktop configures Claude Desktop integration.
func (c *CLI) installClaudeDesktop(args []string) error {
	var opts Options

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--binary", "-b":
			if i+1 < len(args) {
				opts.BinaryPath = args[i+1]
				i++
			}
		case "--data-dir", "-d":
			if i+1 < len(args) {
				opts.DataDir = args[i+1]
				i++
			}
		case "--auto", "-y":
			opts.AutoConfirm = true
		}
	}

	if opts.BinaryPath == "" {
		if execPath, err := os.Executable(); err == nil {
			opts.BinaryPath = execPath
		}
	}

	configPath, _ := ClientConfigPath()
	fmt.Println("Claude Desktop Configuration")
	fmt.Println("============================")
	fmt.Printf("Config file: %s\n", configPath)
	fmt.Printf("Server binary: %s\n", opts.BinaryPath)
	if opts.DataDir != "" {
		fmt.Printf("Data directory: %s\n", opts.DataDir)
	}
	fmt.Println()

	if !opts.AutoConfirm {
		fmt.Print("Proceed with configuration? [Y/n]: ")
		response, _ := c.reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			fmt.Println("Configuration cancelled.")
			return nil
		}
	}

	if err := Install(opts); err != nil {
		return fmt.Errorf("failed to configure Claude Desktop: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Claude Desktop configured successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Restart Claude Desktop to load the new configuration")
	fmt.Println("  2. Ask Claude: \"What MCP tools do you have available?\"")
	fmt.Println("  3. Try: \"Rank implant materials for a femur at 80 kg\"")
	fmt.Println()

	return nil
}

// showStatus displays the current setup status.
func (c *CLI) showStatus() error {
	status, err := GetStatus()
	if err != nil {
		return err
	}

	fmt.Println("BIO-MATCH MCP Server Status")
	fmt.Println("===========================")
	fmt.Println()

	fmt.Println("Claude Desktop:")
	fmt.Printf("  Config path: %s\n", status.ClientConfigPath)
	if status.ClientConfigured {
		fmt.Println("  Status: ✓ Configured")
		fmt.Printf("  Binary: %s\n", status.ServerPath)
	} else {
		fmt.Println("  Status: ✗ Not configured")
	}
	fmt.Println()

	fmt.Println("Data Directory:")
	fmt.Printf("  Path: %s\n", status.DataDir)
	if status.FeedbackDBExists {
		fmt.Println("  Feedback DB: ✓ Present")
	} else {
		fmt.Println("  Feedback DB: - Not created yet")
	}
	fmt.Println()

	if len(status.Issues) > 0 {
		fmt.Println("Issues:")
		for _, issue := range status.Issues {
			fmt.Printf("  ⚠ %s\n", issue)
		}
		fmt.Println()
	}

	return nil
}

// validate checks the current configuration.
func (c *CLI) validate() error {
	fmt.Println("Validating configuration...")
	fmt.Println()

	valid, issues := Validate()
	if valid {
		fmt.Println("✓ Configuration is valid!")
	} else {
		fmt.Println("✗ Configuration has issues:")
	}
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}

	return nil
}
