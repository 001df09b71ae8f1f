package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Session SessionConfig `mapstructure:"session" toml:"session"`
	Demo    DemoConfig    `mapstructure:"demo" toml:"demo"`
	Media   MediaConfig   `mapstructure:"media" toml:"media"`
	Camera  CameraConfig  `mapstructure:"camera" toml:"camera"`
	Export  ExportConfig  `mapstructure:"export" toml:"export"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Backend string `mapstructure:"backend" toml:"backend"` // sqlite | memory
	DSN     string `mapstructure:"dsn" toml:"dsn"`
}

// DemoConfig holds the sample data and animation parameters of the page.
type DemoConfig struct {
	Seed             uint64        `mapstructure:"seed" toml:"seed"`
	Rows             int           `mapstructure:"rows" toml:"rows"`
	GeoPoints        int           `mapstructure:"geo_points" toml:"geo_points"`
	CenterLat        float64       `mapstructure:"center_lat" toml:"center_lat"`
	CenterLon        float64       `mapstructure:"center_lon" toml:"center_lon"`
	Spread           float64       `mapstructure:"spread" toml:"spread"`
	Spinner          time.Duration `mapstructure:"spinner" toml:"spinner"`
	ProgressSteps    int           `mapstructure:"progress_steps" toml:"progress_steps"`
	ProgressInterval time.Duration `mapstructure:"progress_interval" toml:"progress_interval"`
}

// MediaConfig holds media sources and fetch settings.
type MediaConfig struct {
	Fetch    bool          `mapstructure:"fetch" toml:"fetch"`
	Timeout  time.Duration `mapstructure:"timeout" toml:"timeout"`
	ImageURL string        `mapstructure:"image_url" toml:"image_url"`
	AudioURL string        `mapstructure:"audio_url" toml:"audio_url"`
	VideoURL string        `mapstructure:"video_url" toml:"video_url"`
}

// CameraConfig holds the capture device.
type CameraConfig struct {
	Device  string        `mapstructure:"device" toml:"device"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout"`
}

// ExportConfig holds where download buttons write files.
type ExportConfig struct {
	Dir string `mapstructure:"dir" toml:"dir"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	SidebarWidth int    `mapstructure:"sidebar_width" toml:"sidebar_width"`
	MaxWidth     int    `mapstructure:"max_width" toml:"max_width"`
	Markdown     string `mapstructure:"markdown_style" toml:"markdown_style"`
}

// LogConfig holds log output settings. An empty file discards logs while the TUI runs.
type LogConfig struct {
	File string `mapstructure:"file" toml:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session.backend", "sqlite")
	v.SetDefault("session.dsn", "file:widgetdemo?mode=memory&cache=shared")
	v.SetDefault("demo.seed", 0)
	v.SetDefault("demo.rows", 20)
	v.SetDefault("demo.geo_points", 100)
	v.SetDefault("demo.center_lat", 37.56)
	v.SetDefault("demo.center_lon", 126.97)
	v.SetDefault("demo.spread", 50.0)
	v.SetDefault("demo.spinner", "300ms")
	v.SetDefault("demo.progress_steps", 100)
	v.SetDefault("demo.progress_interval", "10ms")
	v.SetDefault("media.fetch", true)
	v.SetDefault("media.timeout", "5s")
	v.SetDefault("media.image_url", "https://static.streamlit.io/examples/dice.jpg")
	v.SetDefault("media.audio_url", "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3")
	v.SetDefault("media.video_url", "https://www.w3schools.com/html/mov_bbb.mp4")
	v.SetDefault("camera.device", "/dev/video0")
	v.SetDefault("camera.timeout", "3s")
	v.SetDefault("export.dir", ".")
	v.SetDefault("ui.sidebar_width", 30)
	v.SetDefault("ui.max_width", 110)
	v.SetDefault("ui.markdown_style", "dark")
	v.SetDefault("log.file", "")
}

// Load reads configuration from file and env. Env var overrides use prefix WIDGETDEMO_.
// An explicit path wins over $WIDGETDEMO_CONFIG, which wins over ~/.config/widgetdemo/config.toml.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("WIDGETDEMO_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "widgetdemo"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WIDGETDEMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default file is fine, a missing explicit one is not
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects values the page cannot render with.
func (c Config) Validate() error {
	switch c.Session.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	if c.Demo.Rows <= 0 || c.Demo.GeoPoints <= 0 {
		return fmt.Errorf("config: demo.rows and demo.geo_points must be positive")
	}
	if c.Demo.Spread <= 0 {
		return fmt.Errorf("config: demo.spread must be positive")
	}
	if c.Demo.ProgressSteps <= 0 {
		return fmt.Errorf("config: demo.progress_steps must be positive")
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
