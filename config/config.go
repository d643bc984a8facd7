package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Risk     RiskOverrides
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RiskOverrides lets operations tune the dispatch gate without a deploy.
// Zero values mean "keep the built-in policy default".
type RiskOverrides struct {
	PreTripWeight  float64
	InTripWeight   float64
	PostTripWeight float64
	LowMaxScore    float64
	MediumMaxScore float64
	HighMaxScore   float64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Risk.PreTripWeight = viper.GetFloat64("RISK_PRE_TRIP_WEIGHT")
	config.Risk.InTripWeight = viper.GetFloat64("RISK_IN_TRIP_WEIGHT")
	config.Risk.PostTripWeight = viper.GetFloat64("RISK_POST_TRIP_WEIGHT")
	config.Risk.LowMaxScore = viper.GetFloat64("RISK_LOW_MAX_SCORE")
	config.Risk.MediumMaxScore = viper.GetFloat64("RISK_MEDIUM_MAX_SCORE")
	config.Risk.HighMaxScore = viper.GetFloat64("RISK_HIGH_MAX_SCORE")

	log.Info().Interface("server", config.Server).Msg("Config loaded")
	return &config, nil
}
