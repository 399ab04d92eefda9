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
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Columns ColumnsConfig `yaml:"columns" mapstructure:"columns"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the spreadsheet tables. Each location is a file
// path or URL of a JSON artifact, a CSV export or an XLSX sheet
// ("book.xlsx#Sheet").
type SourcesConfig struct {
	Plot         string `yaml:"plot" mapstructure:"plot"`
	Constituency string `yaml:"constituency" mapstructure:"constituency"`
	PartyList    string `yaml:"party_list" mapstructure:"party_list"`
	Referendum   string `yaml:"referendum" mapstructure:"referendum"`
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`
	ExportDir    string `yaml:"export_dir" mapstructure:"export_dir"`
	Workbook     string `yaml:"workbook" mapstructure:"workbook"`
}

// OCRConfig locates the OCR result sheets. Archive, when set, is a ZIP of
// the results repository (path or URL) and takes precedence over the dirs.
type OCRConfig struct {
	ConstituencyDir string `yaml:"constituency_dir" mapstructure:"constituency_dir"`
	PartyListDir    string `yaml:"party_list_dir" mapstructure:"party_list_dir"`
	Archive         string `yaml:"archive" mapstructure:"archive"`
	WorkDir         string `yaml:"work_dir" mapstructure:"work_dir"`
}

// OutputConfig names the artifacts.
type OutputConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`
	PrimaryArtifact string `yaml:"primary_artifact" mapstructure:"primary_artifact"`
	OCRArtifact     string `yaml:"ocr_artifact" mapstructure:"ocr_artifact"`
}

// ColumnsConfig overrides source-sheet headers. Empty fields use the
// built-in headers of the public spreadsheet.
type ColumnsConfig struct {
	Province           string `yaml:"province" mapstructure:"province"`
	District           string `yaml:"district" mapstructure:"district"`
	ConstituencyVoters string `yaml:"constituency_voters" mapstructure:"constituency_voters"`
	PartyListVoters    string `yaml:"party_list_voters" mapstructure:"party_list_voters"`
	Difference         string `yaml:"difference" mapstructure:"difference"`
	Margin             string `yaml:"margin" mapstructure:"margin"`
	ConstituencyWinner string `yaml:"constituency_winner" mapstructure:"constituency_winner"`
	PartyListWinner    string `yaml:"party_list_winner" mapstructure:"party_list_winner"`
	InvalidBallots     string `yaml:"invalid_ballots" mapstructure:"invalid_ballots"`
	VoteNo             string `yaml:"vote_no" mapstructure:"vote_no"`
	Turnout            string `yaml:"turnout" mapstructure:"turnout"`
}

// CatalogConfig points at the optional palette/regions override file.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures run history. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the dashboard API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	StaticDir   string   `yaml:"static_dir" mapstructure:"static_dir"`
	TopN        int      `yaml:"top_n" mapstructure:"top_n"`
}

// FetchConfig configures URL sources.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var columnKeys = []string{
	"province", "district", "constituency_voters", "party_list_voters", "difference",
	"margin", "constituency_winner", "party_list_winner", "invalid_ballots", "vote_no", "turnout",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.plot", "dashboard/public/plot.json")
	v.SetDefault("sources.constituency", "dashboard/public/constituency.json")
	v.SetDefault("sources.party_list", "dashboard/public/partylist.json")
	v.SetDefault("sources.referendum", "dashboard/public/referendum.json")
	v.SetDefault("sources.encoding", "utf-8")
	v.SetDefault("sources.export_dir", ".")
	v.SetDefault("sources.workbook", "")
	v.SetDefault("ocr.constituency_dir", "data-ocr/election-69-OCR-result-main/data/matched/constituency")
	v.SetDefault("ocr.party_list_dir", "data-ocr/election-69-OCR-result-main/data/matched/party_list")
	v.SetDefault("ocr.archive", "")
	v.SetDefault("ocr.work_dir", "data-ocr")
	v.SetDefault("output.dir", "dashboard/public")
	v.SetDefault("output.primary_artifact", "plot-processed.json")
	v.SetDefault("output.ocr_artifact", "plot-ocr.json")
	for _, k := range columnKeys {
		v.SetDefault("columns."+k, "")
	}
	v.SetDefault("catalog.path", "")
	v.SetDefault("store.path", "audit.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.top_n", 10)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "audit-cli/1.0")
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

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	var missing []string
	if c.Output.Dir == "" {
		missing = append(missing, "output.dir")
	}
	if c.Output.PrimaryArtifact == "" {
		missing = append(missing, "output.primary_artifact")
	}
	if c.Output.OCRArtifact == "" {
		missing = append(missing, "output.ocr_artifact")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Fetch.MaxRetries < 0 {
		return eris.Errorf("config: fetch.max_retries must not be negative (got %d)", c.Fetch.MaxRetries)
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
