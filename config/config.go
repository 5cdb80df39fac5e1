// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package config

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`

	AudioConfig       AudioConfig       `mapstructure:"audio" validate:"required"`
	TranscriberConfig TranscriberConfig `mapstructure:"transcriber" validate:"required"`
	SinkConfig        SinkConfig        `mapstructure:"sink" validate:"required"`

	// comma separated "participantID=Display Name" pairs
	SpeakerNames string `mapstructure:"speaker_names"`
}

type AudioConfig struct {
	TargetRate    int `mapstructure:"target_rate" validate:"required,gt=0"`
	MinDurationMs int `mapstructure:"min_duration_ms" validate:"gte=0"`
	MaxWorkers    int `mapstructure:"max_workers" validate:"required,gt=0"`
}

type TranscriberConfig struct {
	Engine          string `mapstructure:"engine" validate:"required,oneof=deepgram whisper"`
	DeepgramKey     string `mapstructure:"deepgram_key"`
	WhisperEndpoint string `mapstructure:"whisper_endpoint"`
	TmpDir          string `mapstructure:"tmp_dir"`
}

type SinkConfig struct {
	Dir        string `mapstructure:"dir" validate:"required"`
	WebhookUrl string `mapstructure:"webhook_url"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env varaibles.")
	}

	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	// keeping watch on https://github.com/spf13/viper/issues/188

	v.SetDefault("SERVICE_NAME", "voicescribe")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 9090)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("SPEAKER_NAMES", "")

	v.SetDefault("AUDIO__TARGET_RATE", 16000)
	v.SetDefault("AUDIO__MIN_DURATION_MS", 1000)
	v.SetDefault("AUDIO__MAX_WORKERS", 4)

	v.SetDefault("TRANSCRIBER__ENGINE", "deepgram")
	v.SetDefault("TRANSCRIBER__DEEPGRAM_KEY", "")
	v.SetDefault("TRANSCRIBER__WHISPER_ENDPOINT", "")
	v.SetDefault("TRANSCRIBER__TMP_DIR", "")

	v.SetDefault("SINK__DIR", "transcripts")
	v.SetDefault("SINK__WEBHOOK_URL", "")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	err := v.Unmarshal(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	err = validate.Struct(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}
