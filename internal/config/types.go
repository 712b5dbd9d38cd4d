package config

import (
	"time"
)

// Config is the effective run configuration after merging defaults, the
// optional config file, environment variables, flags and positional
// management parameters.
type Config struct {
	Selection string `mapstructure:"selection" yaml:"selection"`
	Renderer  string `mapstructure:"renderer" yaml:"renderer" validate:"required,oneof=swiftdialog console"`
	DryRun    bool   `mapstructure:"dry_run" yaml:"dry_run"`

	Log      LogSettings    `mapstructure:"log" yaml:"log"`
	Binaries Binaries       `mapstructure:"binaries" yaml:"binaries"`
	Triggers Triggers       `mapstructure:"triggers" yaml:"triggers"`
	Timeouts Timeouts       `mapstructure:"timeouts" yaml:"timeouts"`
	Dialog   DialogSettings `mapstructure:"dialog" yaml:"dialog"`

	// Roots overrides the recognised application directories, in priority order.
	Roots   []string            `mapstructure:"roots" yaml:"roots,omitempty" validate:"omitempty,dive,abs_path"`
	Items   []ItemConfig        `mapstructure:"items" yaml:"items,omitempty" validate:"omitempty,dive"`
	Presets map[string][]string `mapstructure:"presets" yaml:"presets,omitempty" validate:"omitempty,dive,keys,preset_name,endkeys,min=1"`
}

// LogSettings controls console and file logging.
type LogSettings struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	File       string `mapstructure:"file" yaml:"file" validate:"omitempty,abs_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"min=0,max=1024"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0,max=50"`
	JSON       bool   `mapstructure:"json" yaml:"json"`
}

// Binaries locates the external tools.
type Binaries struct {
	Dialog  string `mapstructure:"dialog" yaml:"dialog" validate:"required,abs_path"`
	Utiluti string `mapstructure:"utiluti" yaml:"utiluti" validate:"required,abs_path"`
	Mdls    string `mapstructure:"mdls" yaml:"mdls" validate:"required,abs_path"`
	Agent   string `mapstructure:"agent" yaml:"agent" validate:"omitempty,abs_path"`
}

// Triggers are the management policy events that install missing tools.
type Triggers struct {
	Dialog  string `mapstructure:"dialog" yaml:"dialog"`
	Utiluti string `mapstructure:"utiluti" yaml:"utiluti"`
	Icons   string `mapstructure:"icons" yaml:"icons"`
}

// Timeouts bound external invocations.
type Timeouts struct {
	Command time.Duration `mapstructure:"command" yaml:"command" validate:"min=100ms"`
	Dialog  time.Duration `mapstructure:"dialog" yaml:"dialog" validate:"min=1s"`
}

// DialogSettings is the presentation metadata of the selection dialog.
type DialogSettings struct {
	Title          string `mapstructure:"title" yaml:"title" validate:"required,max=200"`
	Message        string `mapstructure:"message" yaml:"message" validate:"required"`
	Icon           string `mapstructure:"icon" yaml:"icon"`
	IconPath       string `mapstructure:"icon_path" yaml:"icon_path" validate:"omitempty,abs_path"`
	BannerImage    string `mapstructure:"banner_image" yaml:"banner_image"`
	InfoBox        string `mapstructure:"info_box" yaml:"info_box"`
	OverlayIcon    string `mapstructure:"overlay_icon" yaml:"overlay_icon"`
	HelpMessage    string `mapstructure:"help_message" yaml:"help_message"`
	HelpImage      string `mapstructure:"help_image" yaml:"help_image"`
	Button1Text    string `mapstructure:"button1_text" yaml:"button1_text" validate:"required"`
	Button2Text    string `mapstructure:"button2_text" yaml:"button2_text" validate:"required"`
	InfoButtonText string `mapstructure:"info_button_text" yaml:"info_button_text"`
	SupportURL     string `mapstructure:"support_url" yaml:"support_url" validate:"omitempty,url"`
	Width          string `mapstructure:"width" yaml:"width" validate:"omitempty,numeric"`
	Height         string `mapstructure:"height" yaml:"height"`
	OnTop          bool   `mapstructure:"on_top" yaml:"on_top"`
	Moveable       bool   `mapstructure:"moveable" yaml:"moveable"`
	// WorkDir holds the transient dialog document.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir" validate:"omitempty,abs_path"`
}

// ItemConfig declares an extra scheme or file type.
type ItemConfig struct {
	Token string `mapstructure:"token" yaml:"token" validate:"required,item_token"`
	Label string `mapstructure:"label" yaml:"label" validate:"required,max=100"`
	Kind  string `mapstructure:"kind" yaml:"kind" validate:"required,oneof=url type"`
	Key   string `mapstructure:"key" yaml:"key,omitempty"`
}
