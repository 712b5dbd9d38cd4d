package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// maxPositional is the number of policy parameters ($4 to $11).
	maxPositional = 8
	// jamfReserved counts the leading policy arguments: mount point,
	// computer name and user name.
	jamfReserved   = 3
	jamfMountPoint = "/"
)

// positionalKeys maps management parameters, in order, to config keys.
var positionalKeys = []string{
	"selection",
	"binaries.dialog",
	"triggers.dialog",
	"triggers.utiluti",
	"triggers.icons",
	"dialog.support_url",
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"dry-run":         "dry_run",
	"selection":       "selection",
	"dialog":          "binaries.dialog",
	"utiluti":         "binaries.utiluti",
	"renderer":        "renderer",
	"support-url":     "dialog.support_url",
	"trigger-dialog":  "triggers.dialog",
	"trigger-utiluti": "triggers.utiluti",
	"trigger-icons":   "triggers.icons",
}

type runOptions struct {
	selection      string
	dialog         string
	utiluti        string
	renderer       string
	supportURL     string
	triggerDialog  string
	triggerUtiluti string
	triggerIcons   string
	jamfArgs       bool
}

func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.selection, "selection", "s", "", "Preset name or comma separated item tokens")
	f.StringVar(&o.dialog, "dialog", "", "Path to the swiftDialog binary")
	f.StringVar(&o.utiluti, "utiluti", "", "Path to the utiluti binary")
	f.StringVar(&o.renderer, "renderer", "", "Dialog renderer: swiftdialog or console")
	f.StringVar(&o.supportURL, "support-url", "", "URL opened by the dialog help button")
	f.StringVar(&o.triggerDialog, "trigger-dialog", "", "Policy event that installs swiftDialog")
	f.StringVar(&o.triggerUtiluti, "trigger-utiluti", "", "Policy event that installs utiluti")
	f.StringVar(&o.triggerIcons, "trigger-icons", "", "Policy event that installs branding icons")
	f.BoolVar(&o.jamfArgs, "jamf-args", false, "Skip the three leading policy arguments")
}

// boundFlags returns the flags of cmd that map to config keys.
func boundFlags(cmd *cobra.Command) map[string]*pflag.Flag {
	out := make(map[string]*pflag.Flag, len(flagKeys))
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			out[key] = flag
		}
	}
	return out
}

// positionalOverrides maps management parameters to config keys. Blank
// parameters are kept in the map and ignored by the loader.
func positionalOverrides(args []string, jamf bool) (map[string]string, error) {
	if jamf || (len(args) > 0 && args[0] == jamfMountPoint) {
		if len(args) <= jamfReserved {
			return map[string]string{}, nil
		}
		args = args[jamfReserved:]
	}

	if len(args) > maxPositional {
		return nil, fmt.Errorf("expected at most %d management parameters, got %d", maxPositional, len(args))
	}

	out := make(map[string]string, len(positionalKeys))
	for idx, value := range args {
		if idx >= len(positionalKeys) {
			break
		}
		out[positionalKeys[idx]] = value
	}
	return out, nil
}
