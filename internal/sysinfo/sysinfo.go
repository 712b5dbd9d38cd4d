// Package sysinfo gathers the read-only machine facts shown in the dialog help text.
package sysinfo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
)

// Unknown is substituted for any fact that could not be read.
const Unknown = "unknown"

// Facts are the values available to help text templates.
type Facts struct {
	ConsoleUser string
	ConsoleUID  int
	Hostname    string
	OSVersion   string
	DiskFree    string
	Arch        string
}

// User returns the console user in the form the command runner expects.
func (f Facts) User() execx.ConsoleUser {
	if f.ConsoleUser == Unknown {
		return execx.ConsoleUser{}
	}
	return execx.ConsoleUser{Name: f.ConsoleUser, UID: f.ConsoleUID}
}

// Gather collects facts. Every probe is best effort.
func Gather(ctx context.Context, runner execx.Runner, log *logger.Logger) Facts {
	facts := Facts{
		ConsoleUser: Unknown,
		Hostname:    Unknown,
		OSVersion:   Unknown,
		DiskFree:    Unknown,
		Arch:        runtime.GOARCH,
	}

	if res, err := runner.Run(ctx, "/usr/bin/stat", "-f", "%Su", "/dev/console"); err == nil && res.Stdout != "" {
		facts.ConsoleUser = res.Stdout
		if uid, err := runner.Run(ctx, "/usr/bin/id", "-u", res.Stdout); err == nil {
			if n, convErr := strconv.Atoi(uid.Stdout); convErr == nil {
				facts.ConsoleUID = n
			}
		}
	} else if err != nil {
		log.Error(err, "could not determine console user")
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		facts.Hostname = host
	}

	if res, err := runner.Run(ctx, "/usr/bin/sw_vers", "-productVersion"); err == nil && res.Stdout != "" {
		facts.OSVersion = res.Stdout
	}

	if res, err := runner.Run(ctx, "/bin/df", "-h", "/"); err == nil {
		if free, ok := parseDiskFree(res.Stdout); ok {
			facts.DiskFree = free
		}
	}

	log.WithFields(map[string]any{
		"console_user": facts.ConsoleUser,
		"os_version":   facts.OSVersion,
		"disk_free":    facts.DiskFree,
		"arch":         facts.Arch,
	}).Debug("gathered system facts")

	return facts
}

// parseDiskFree reads the "Avail" column of the last line of df -h output.
func parseDiskFree(out string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return "", false
	}
	header := strings.Fields(lines[0])
	fields := strings.Fields(lines[len(lines)-1])
	for idx, name := range header {
		if (name == "Avail" || name == "Available") && idx < len(fields) {
			return fields[idx], true
		}
	}
	return "", false
}

// Expand renders a text/template help message against the facts.
func Expand(text string, facts Facts) (string, error) {
	tmpl, err := template.New("helpmessage").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse help text: %w", err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, facts); err != nil {
		return "", fmt.Errorf("render help text: %w", err)
	}
	return rendered.String(), nil
}
