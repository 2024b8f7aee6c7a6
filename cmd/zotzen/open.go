// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// openURL hands a URL to the platform opener. Failures are reported but
// never fail the invocation; opening links is best-effort.
func openURL(url string, errw io.Writer) {
	if url == "" {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(errw, "warning: could not open %s: %v\n", url, err)
	}
}
