package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/viper"
)

type Config struct {
	MapFile                    string   `mapstructure:"map_file"`
	OutputFile                 string   `mapstructure:"output_file" validate:"required"`
	PointWayTolerance          float64  `mapstructure:"point_way_tolerance" validate:"gt=0"`
	RightHandTraffic           bool     `mapstructure:"right_hand_traffic"`
	OnlyWaysWithOvertakeEvents bool     `mapstructure:"only_ways_with_overtake_events"`
	MaxWayLength               float64  `mapstructure:"max_way_length" validate:"gte=0"`
	TileZoom                   int      `mapstructure:"tile_zoom" validate:"gte=0,lte=20"`
	Workers                    int      `mapstructure:"workers" validate:"gte=1,lte=256"`
	HighwayFilter              []string `mapstructure:"highway_filter" validate:"dive,required"`
	LogLevel                   string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_file", "./data/road_annotations.json")
	v.SetDefault("point_way_tolerance", 40.0)
	v.SetDefault("right_hand_traffic", true)
	v.SetDefault("only_ways_with_overtake_events", true)
	v.SetDefault("max_way_length", 0.0)
	v.SetDefault("tile_zoom", 14)
	v.SetDefault("workers", 4)
	v.SetDefault("highway_filter", []string{
		"trunk", "primary", "secondary", "tertiary", "unclassified", "residential",
		"trunk_link", "primary_link", "secondary_link", "tertiary_link",
		"living_street", "service", "track", "road",
	})
	v.SetDefault("log_level", "info")
}

// ReadConfig. reads config.yaml from configPath (./data/ when empty). a missing file is not an error,
// defaults and OVERTAKE_* environment variables still apply.
func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	if configPath == "" {
		configPath = "./data/"
	}
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("OVERTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, WrapErrorf(err, ErrBadParamInput, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return WrapErrorf(err, ErrBadParamInput, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return WrapErrorf(nil, ErrBadParamInput, "validation error: %v", msgs)
}
