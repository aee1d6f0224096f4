package config

import (
	"errors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jaam8/survey_client/pkg/httpclient"
	"github.com/joho/godotenv"
	"io/fs"
)

const (
	FrontendTerminal   = "terminal"
	FrontendMattermost = "mattermost"
)

type Config struct {
	LogLevel   string            `yaml:"LOG_LEVEL" env:"LOG_LEVEL" env-default:"info"`
	Frontend   string            `yaml:"FRONTEND"  env:"FRONTEND"  env-default:"terminal"`
	Backend    httpclient.Config `yaml:"BACKEND"   env:"BACKEND"`
	Audio      Audio             `yaml:"AUDIO"     env:"AUDIO"`
	Mattermost Mattermost        `yaml:"MATTERMOST" env:"MATTERMOST"`
}

type Audio struct {
	Source    string `yaml:"AUDIO_SOURCE"     env:"AUDIO_SOURCE"`
	MimeType  string `yaml:"AUDIO_MIME_TYPE"  env:"AUDIO_MIME_TYPE"  env-default:"audio/webm"`
	ChunkSize int    `yaml:"AUDIO_CHUNK_SIZE" env:"AUDIO_CHUNK_SIZE" env-default:"4096"`
}

type Mattermost struct {
	BotToken  string `yaml:"BOT_TOKEN"  env:"BOT_TOKEN"`
	URL       string `yaml:"MM_URL"     env:"MM_URL"`
	WsURL     string `yaml:"MM_WS_URL"  env:"MM_WS_URL"`
	ChannelID string `yaml:"CHANNEL_ID" env:"CHANNEL_ID"`
	Command   string `yaml:"MM_COMMAND" env:"MM_COMMAND" env-default:"/survey"`
}

var (
	ErrUnknownFrontend   = errors.New("FRONTEND must be terminal or mattermost")
	ErrMattermostMissing = errors.New("BOT_TOKEN, MM_URL, MM_WS_URL and CHANNEL_ID are required for the mattermost frontend")
)

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Frontend {
	case FrontendTerminal:
		return nil
	case FrontendMattermost:
		mm := c.Mattermost
		if mm.BotToken == "" || mm.URL == "" || mm.WsURL == "" || mm.ChannelID == "" {
			return ErrMattermostMissing
		}
		return nil
	default:
		return ErrUnknownFrontend
	}
}
