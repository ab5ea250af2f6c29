package util

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variable.
type Config struct {
	Environment       string `mapstructure:"ENVIRONMENT"`
	HTTPServerAddress string `mapstructure:"HTTP_SERVER_ADDRESS"`
	DBSource          string `mapstructure:"DB_SOURCE"`
	MigrationURL      string `mapstructure:"MIGRATION_URL"`
	RedisAddress      string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	APIKey            string `mapstructure:"API_KEY"`

	// Geocoding service
	GeocoderBaseURL string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderTimeout time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocodeCacheTTL time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`

	// Trained model artifacts. The predictor is only enabled when both
	// files load successfully at startup.
	ModelPath   string `mapstructure:"MODEL_PATH"`
	EncoderPath string `mapstructure:"ENCODER_PATH"`

	// Shop origin and home delivery region
	OriginLatitude  float64 `mapstructure:"ORIGIN_LATITUDE"`
	OriginLongitude float64 `mapstructure:"ORIGIN_LONGITUDE"`
	HomeRegion      string  `mapstructure:"HOME_REGION"`

	// Pricing parameters (KSh)
	RatePerKmHome         float64 `mapstructure:"RATE_PER_KM_HOME"`
	BaseFee               float64 `mapstructure:"BASE_FEE"`
	FlatRateOthers        float64 `mapstructure:"FLAT_RATE_OTHERS"`
	MinOrderValue         float64 `mapstructure:"MIN_ORDER_VALUE"`
	FreeShippingThreshold float64 `mapstructure:"FREE_SHIPPING_THRESHOLD"`
	ZoneSurcharge         float64 `mapstructure:"ZONE_SURCHARGE"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// Built-in defaults, used when the config source omits a key.
	viper.SetDefault("ORIGIN_LATITUDE", -1.263757)
	viper.SetDefault("ORIGIN_LONGITUDE", 36.9116907)
	viper.SetDefault("HOME_REGION", "Nairobi")
	viper.SetDefault("RATE_PER_KM_HOME", 28.0)
	viper.SetDefault("BASE_FEE", 50.0)
	viper.SetDefault("FLAT_RATE_OTHERS", 450.0)
	viper.SetDefault("MIN_ORDER_VALUE", 500.0)
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", 5000.0)
	viper.SetDefault("ZONE_SURCHARGE", 0.0)
	viper.SetDefault("GEOCODER_TIMEOUT", 5*time.Second)
	viper.SetDefault("GEOCODE_CACHE_TTL", 24*time.Hour)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
