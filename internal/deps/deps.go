package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external executable and whether jobs can run without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of checking one Requirement. Command holds the
// resolved path when the binary was found.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Blocking reports whether the dependency is required and missing.
func (s Status) Blocking() bool {
	return !s.Available && !s.Optional
}

// CheckBinaries resolves each requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		status.Command, status.Available, status.Detail = resolve(req.Command)
		results = append(results, status)
	}
	return results
}

// Unmet returns the statuses that block a job.
func Unmet(statuses []Status) []Status {
	var unmet []Status
	for _, s := range statuses {
		if s.Blocking() {
			unmet = append(unmet, s)
		}
	}
	return unmet
}

func resolve(command string) (string, bool, string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false, "command not configured"
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return command, false, fmt.Sprintf("binary %q not found", command)
	}
	return path, true, ""
}
