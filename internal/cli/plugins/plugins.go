// Package plugins runs external outcheck sub-commands.
// A plugin is a separate binary named outcheck-<command>; it is looked up
// when the command line names a command outcheck does not have.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const prefix = "outcheck-"

// KnownPlugins lists plugin names with a short description. They get a
// friendlier message when the binary is missing.
var KnownPlugins = map[string]string{
	"clean":  "Remove check reports, selection scripts and tying files from a job directory.",
	"report": "Collect check reports of several jobs into one table.",
	"h5":     "Read wall times from solver result files instead of the output log.",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Dirs returns the directories searched before PATH, in order: the
// directory of the running binary, then ~/.outcheck/plugins.
func Dirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".outcheck", "plugins"))
	}
	return dirs
}

// FindPlugin returns the path of the outcheck-<command> binary, searching
// Dirs and then PATH.
func FindPlugin(command string) (string, error) {
	name := prefix + command

	for _, dir := range Dirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// Execute runs a plugin with the process's standard streams and returns its
// exit code.
func Execute(pluginPath string, args []string) int {
	cmd := exec.Command(pluginPath, args...) // #nosec G204 -- plugin path comes from FindPlugin
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 2
	}
	return 0
}

// FormatNotFoundError explains where a missing plugin binary would be found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"outcheck\"\n", command)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is available as a plugin.\n%s\n\nInstall the plugin binary as one of:\n", command, info)
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	fmt.Fprintf(&sb, "  - %s%s in the same directory as outcheck\n", prefix, command)
	fmt.Fprintf(&sb, "  - ~/.outcheck/plugins/%s%s\n", prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", prefix, command)
	sb.WriteString("\nRun 'outcheck --help' for usage.")

	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
