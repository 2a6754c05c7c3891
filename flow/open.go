package flow

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// SystemOpener opens folders with the desktop file manager and starts the
// manager TUI in a new terminal window.
type SystemOpener struct {
	// Executable is the cmdvault binary; empty means the running one.
	Executable string
}

func (o SystemOpener) OpenFolder(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return start(cmd)
}

func (o SystemOpener) OpenManager() error {
	exe := o.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", exe)
	case "darwin":
		cmd = exec.Command("open", "-a", "Terminal", exe)
	default:
		cmd = exec.Command("x-terminal-emulator", "-e", exe)
	}
	return start(cmd)
}

// start launches cmd without waiting; Flow kills the plugin process once
// the response is written.
func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return cmd.Process.Release()
}
