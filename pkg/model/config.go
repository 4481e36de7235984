package model

import (
	"encoding/json"
	"fmt"
)

// WidgetConfig is the per-widget configuration payload. Each widget type has
// its own concrete config struct; the Kind string ties the two together and
// doubles as the JSON envelope tag for persistence.
type WidgetConfig interface {
	Kind() string
	CloneConfig() WidgetConfig
}

// ClockConfig configures a clock widget.
type ClockConfig struct {
	Timezone       string `json:"timezone,omitempty"`
	TwentyFourHour bool   `json:"twenty_four_hour,omitempty"`
}

func (c ClockConfig) Kind() string { return "clock" }

func (c ClockConfig) CloneConfig() WidgetConfig { return c }

// WeatherConfig configures a weather widget.
type WeatherConfig struct {
	Location string `json:"location"`
	Units    string `json:"units,omitempty"`
}

func (c WeatherConfig) Kind() string { return "weather" }

func (c WeatherConfig) CloneConfig() WidgetConfig { return c }

// MediaConfig configures a media-library status widget.
type MediaConfig struct {
	ServerURL string `json:"server_url"`
	Sections  int    `json:"sections,omitempty"`
}

func (c MediaConfig) Kind() string { return "media" }

func (c MediaConfig) CloneConfig() WidgetConfig { return c }

// DownloadsConfig configures a download-queue widget.
type DownloadsConfig struct {
	Endpoint string `json:"endpoint"`
	Topic    string `json:"topic,omitempty"`
}

func (c DownloadsConfig) Kind() string { return "downloads" }

func (c DownloadsConfig) CloneConfig() WidgetConfig { return c }

// SysLoadConfig configures a system-load widget.
type SysLoadConfig struct {
	ShowSwap bool   `json:"show_swap,omitempty"`
	Topic    string `json:"topic,omitempty"`
}

func (c SysLoadConfig) Kind() string { return "sysload" }

func (c SysLoadConfig) CloneConfig() WidgetConfig { return c }

// NoteConfig configures a free-form note widget. Body is markdown. Extra is
// the escape hatch for genuinely open-ended user content; every other widget
// type gets typed fields instead.
type NoteConfig struct {
	Body  string            `json:"body"`
	Extra map[string]string `json:"extra,omitempty"`
}

func (c NoteConfig) Kind() string { return "note" }

func (c NoteConfig) CloneConfig() WidgetConfig {
	clone := c
	if c.Extra != nil {
		clone.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// EmbedConfig configures an embedded-page widget.
type EmbedConfig struct {
	URL string `json:"url"`
}

func (c EmbedConfig) Kind() string { return "embed" }

func (c EmbedConfig) CloneConfig() WidgetConfig { return c }

type configEnvelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeConfig serializes a config into its JSON envelope. A nil config
// encodes as an empty string.
func EncodeConfig(c WidgetConfig) (string, error) {
	if c == nil {
		return "", nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal %s config: %w", c.Kind(), err)
	}
	env, err := json.Marshal(configEnvelope{Kind: c.Kind(), Payload: payload})
	if err != nil {
		return "", err
	}
	return string(env), nil
}

// DecodeConfig parses a JSON envelope back into a typed config. Unknown kinds
// decode into a note-shaped extras bag so user data survives a version skew
// instead of being dropped.
func DecodeConfig(raw string) (WidgetConfig, error) {
	if raw == "" {
		return nil, nil
	}
	var env configEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("decode config envelope: %w", err)
	}

	var dst WidgetConfig
	switch env.Kind {
	case "clock":
		dst = &ClockConfig{}
	case "weather":
		dst = &WeatherConfig{}
	case "media":
		dst = &MediaConfig{}
	case "downloads":
		dst = &DownloadsConfig{}
	case "sysload":
		dst = &SysLoadConfig{}
	case "embed":
		dst = &EmbedConfig{}
	case "note":
		dst = &NoteConfig{}
	default:
		c := NoteConfig{}
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &c.Extra); err != nil {
				return nil, fmt.Errorf("decode unknown config kind %q: %w", env.Kind, err)
			}
		}
		return c, nil
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, dst); err != nil {
			return nil, fmt.Errorf("decode %s config: %w", env.Kind, err)
		}
	}

	switch c := dst.(type) {
	case *ClockConfig:
		return *c, nil
	case *WeatherConfig:
		return *c, nil
	case *MediaConfig:
		return *c, nil
	case *DownloadsConfig:
		return *c, nil
	case *SysLoadConfig:
		return *c, nil
	case *EmbedConfig:
		return *c, nil
	case *NoteConfig:
		return *c, nil
	}
	return nil, fmt.Errorf("unhandled config kind %q", env.Kind)
}
