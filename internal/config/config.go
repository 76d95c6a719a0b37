package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Lookup   LookupConfig   `yaml:"lookup" mapstructure:"lookup"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeocodeConfig configures the Nominatim geocoding adapter.
type GeocodeConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	State       string `yaml:"state" mapstructure:"state"`
	DelayMS     int    `yaml:"delay_ms" mapstructure:"delay_ms"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LookupConfig configures the district/boundary lookup services. The delay is
// shared by all four services; the municipality predicates decide which
// records get the SF and Marin lookups.
type LookupConfig struct {
	SFURL             string   `yaml:"sf_url" mapstructure:"sf_url"`
	MarinURL          string   `yaml:"marin_url" mapstructure:"marin_url"`
	CensusURL         string   `yaml:"census_url" mapstructure:"census_url"`
	FCCURL            string   `yaml:"fcc_url" mapstructure:"fcc_url"`
	DelayMS           int      `yaml:"delay_ms" mapstructure:"delay_ms"`
	ArcGISTimeoutSecs int      `yaml:"arcgis_timeout_secs" mapstructure:"arcgis_timeout_secs"`
	CensusTimeoutSecs int      `yaml:"census_timeout_secs" mapstructure:"census_timeout_secs"`
	FCCTimeoutSecs    int      `yaml:"fcc_timeout_secs" mapstructure:"fcc_timeout_secs"`
	MunicipalCity     string   `yaml:"municipal_city" mapstructure:"municipal_city"`
	CountyCities      []string `yaml:"county_cities" mapstructure:"county_cities"`
}

// PipelineConfig configures checkpointing behavior.
type PipelineConfig struct {
	CheckpointEvery int    `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	CheckpointDir   string `yaml:"checkpoint_dir" mapstructure:"checkpoint_dir"`
}

// DatasetConfig names the input columns of the roster spreadsheet.
type DatasetConfig struct {
	AddressColumn string `yaml:"address_column" mapstructure:"address_column"`
	CityColumn    string `yaml:"city_column" mapstructure:"city_column"`
	ZipColumn     string `yaml:"zip_column" mapstructure:"zip_column"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DISTRICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.user_agent", "district_lookup_v1.0")
	v.SetDefault("geocode.state", "CA")
	// Nominatim usage policy caps clients at roughly 1 request/second.
	v.SetDefault("geocode.delay_ms", 1100)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("lookup.sf_url", "https://services3.arcgis.com/iOy5B2EVhg9OAGCE/arcgis/rest/services/Supervisor_Districts/FeatureServer/0/query")
	v.SetDefault("lookup.marin_url", "https://gis.marincounty.org/server/rest/services/Boundaries/Supervisor_Districts/MapServer/0/query")
	v.SetDefault("lookup.census_url", "https://geocoding.geo.census.gov/geocoder/geographies/coordinates")
	v.SetDefault("lookup.fcc_url", "https://geo.fcc.gov/api/census/area")
	v.SetDefault("lookup.delay_ms", 500)
	v.SetDefault("lookup.arcgis_timeout_secs", 15)
	v.SetDefault("lookup.census_timeout_secs", 20)
	v.SetDefault("lookup.fcc_timeout_secs", 15)
	v.SetDefault("lookup.municipal_city", "San Francisco")
	v.SetDefault("lookup.county_cities", []string{
		"san rafael", "novato", "mill valley", "tiburon", "sausalito",
		"corte madera", "larkspur", "fairfax", "san anselmo", "ross",
		"kentfield", "belvedere",
	})
	v.SetDefault("pipeline.checkpoint_every", 10)
	v.SetDefault("pipeline.checkpoint_dir", ".")
	v.SetDefault("dataset.address_column", "Person Address")
	v.SetDefault("dataset.city_column", "Person city")
	v.SetDefault("dataset.zip_column", "Person Zip Code")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks knobs the pipeline cannot run without.
func (c *Config) Validate() error {
	var problems []string

	if c.Geocode.BaseURL == "" {
		problems = append(problems, "geocode.base_url is required")
	}
	if c.Geocode.UserAgent == "" {
		problems = append(problems, "geocode.user_agent is required (Nominatim rejects anonymous clients)")
	}
	if c.Geocode.DelayMS < 1000 {
		problems = append(problems, "geocode.delay_ms must be >= 1000 per Nominatim usage policy")
	}
	if c.Lookup.DelayMS < 0 {
		problems = append(problems, "lookup.delay_ms must be >= 0")
	}
	if c.Pipeline.CheckpointEvery <= 0 {
		problems = append(problems, "pipeline.checkpoint_every must be > 0")
	}
	if c.Dataset.AddressColumn == "" || c.Dataset.CityColumn == "" || c.Dataset.ZipColumn == "" {
		problems = append(problems, "dataset column names are required")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
