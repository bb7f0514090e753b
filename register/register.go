// Package register implements the `register` subcommand, which writes an
// MCP server entry for the linegrep binary into the client configuration.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Run executes the register subcommand. serverName is the MCP server
// name; args is everything after "register" on the command line.
func Run(serverName string, args []string) {
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	scope := args[0]
	if scope != "project" && scope != "user" {
		fmt.Fprintf(os.Stderr, "Error: unknown scope %q (must be \"project\" or \"user\")\n", scope)
		printUsage()
		os.Exit(2)
	}

	directory, serverArgs := splitArgs(args[1:], scope == "project")

	binaryPath, err := detectBinaryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error detecting binary path: %v\n", err)
		os.Exit(1)
	}

	configPath, err := resolveConfigPath(scope, directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
		os.Exit(1)
	}

	entry := buildEntry(binaryPath, serverArgs)

	if err := writeConfig(configPath, serverName, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Registered %q in %s\n", serverName, configPath)
}

func printUsage() {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s register project [directory]   # → <directory>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register user                  # → ~/.claude.json\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register project . -- -ignore  # forward flags to the server\n", binaryName)
}

// splitArgs separates the optional directory argument (project scope
// only) from the server arguments following the "--" separator.
func splitArgs(args []string, wantDirectory bool) (directory string, serverArgs []string) {
	if wantDirectory {
		directory = "."
	}
	for i, arg := range args {
		if arg == "--" {
			return directory, args[i+1:]
		}
		if wantDirectory && i == 0 {
			directory = arg
		}
	}
	return directory, nil
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

// buildEntry always passes -mcp so the registered binary starts in
// server mode rather than waiting for a pattern on the command line.
func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	args := append([]string{"-mcp"}, serverArgs...)
	if runtime.GOOS == "windows" {
		cmdArgs := append([]string{"/C", binaryPath}, args...)
		return serverEntry{Command: "cmd", Args: cmdArgs}
	}
	return serverEntry{Command: binaryPath, Args: args}
}

func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]interface{}{
		"mcpServers": map[string]interface{}{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]interface{})
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	// Atomic write: temp file in the same directory, then rename.
	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}

	return nil
}
