package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultRenderer = "swiftdialog"

	DefaultLogLevel      = "info"
	DefaultLogFile       = "/var/log/defaultapps.log"
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 3

	DefaultDialogBinary  = "/usr/local/bin/dialog"
	DefaultUtilutiBinary = "/usr/local/bin/utiluti"
	DefaultMdlsBinary    = "/usr/bin/mdls"
	DefaultAgentBinary   = "/usr/local/bin/jamf"

	DefaultCommandTimeout = 15 * time.Second
	DefaultDialogTimeout  = 15 * time.Minute

	DefaultTitle       = "Default Applications"
	DefaultMessage     = "Choose the applications you want to use by default. Fields left on their current value are re-applied unchanged."
	DefaultIcon        = "SF=app.badge.checkmark"
	DefaultButton1Text = "Apply"
	DefaultButton2Text = "Cancel"
	DefaultInfoButton  = "Get Help"
	DefaultWidth       = "780"
	DefaultHelpMessage = "If you need assistance, please contact support.<br><br>" +
		"**User:** {{.ConsoleUser}}<br>" +
		"**Computer:** {{.Hostname}}<br>" +
		"**macOS:** {{.OSVersion}} ({{.Arch}})<br>" +
		"**Free disk space:** {{.DiskFree}}"
)

// setDefaults registers all default configuration values with a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("selection", "")
	v.SetDefault("renderer", DefaultRenderer)
	v.SetDefault("dry_run", false)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", DefaultLogFile)
	v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.json", false)

	v.SetDefault("binaries.dialog", DefaultDialogBinary)
	v.SetDefault("binaries.utiluti", DefaultUtilutiBinary)
	v.SetDefault("binaries.mdls", DefaultMdlsBinary)
	v.SetDefault("binaries.agent", DefaultAgentBinary)

	v.SetDefault("triggers.dialog", "")
	v.SetDefault("triggers.utiluti", "")
	v.SetDefault("triggers.icons", "")

	v.SetDefault("timeouts.command", DefaultCommandTimeout)
	v.SetDefault("timeouts.dialog", DefaultDialogTimeout)

	v.SetDefault("dialog.title", DefaultTitle)
	v.SetDefault("dialog.message", DefaultMessage)
	v.SetDefault("dialog.icon", DefaultIcon)
	v.SetDefault("dialog.icon_path", "")
	v.SetDefault("dialog.banner_image", "")
	v.SetDefault("dialog.info_box", "")
	v.SetDefault("dialog.overlay_icon", "")
	v.SetDefault("dialog.help_message", DefaultHelpMessage)
	v.SetDefault("dialog.help_image", "")
	v.SetDefault("dialog.button1_text", DefaultButton1Text)
	v.SetDefault("dialog.button2_text", DefaultButton2Text)
	v.SetDefault("dialog.info_button_text", DefaultInfoButton)
	v.SetDefault("dialog.support_url", "")
	v.SetDefault("dialog.width", DefaultWidth)
	v.SetDefault("dialog.height", "")
	v.SetDefault("dialog.on_top", true)
	v.SetDefault("dialog.moveable", true)
	v.SetDefault("dialog.work_dir", "")
}
