package main

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/paydata/payplan/pkg/logging"
)

// openArtifact opens the spreadsheet with the platform opener. Inside a
// container there is nothing to open it with, so only the path is
// logged.
func openArtifact(path string) {
	logger := logging.NewLogger("payplan")

	if _, err := os.Stat("/.dockerenv"); err == nil {
		logger.Info().Str("path", path).Msg("spreadsheet saved")
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("could not open spreadsheet")
	}
}
