package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// CheckMediaTool resolves an ffmpeg-family binary and records its version
// line ("ffmpeg version 6.1.1 ...") in Detail.
func CheckMediaTool(ctx context.Context, name, command, description string) Status {
	status := Status{Name: name, Description: description}
	status.Command, status.Available, status.Detail = resolve(command)
	if !status.Available {
		return status
	}

	versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	output, err := exec.CommandContext(versionCtx, status.Command, "-hide_banner", "-version").Output()
	if err != nil {
		status.Detail = "version unknown"
		return status
	}
	status.Detail = parseVersionLine(string(output))
	return status
}

// parseVersionLine returns the version token from the first line of
// `<tool> -version` output, or "" when it is not recognizable.
func parseVersionLine(output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "version" {
			return "version " + fields[i+1]
		}
	}
	return ""
}
