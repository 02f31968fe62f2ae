package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Host         string   `toml:"host" env:"HOST"`
	Port         int      `toml:"port" env:"PORT"`
	AllowOrigins []string `toml:"allow_origins" env:"ALLOW_ORIGINS" envSeparator:","`
	MaxUploadMB  int      `toml:"max_upload_mb" env:"MAX_UPLOAD_MB"`

	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	LogFile  string `toml:"log_file" env:"LOG_FILE"` // "": только консоль

	CatalogDir          string `toml:"catalog_dir" env:"CATALOG_DIR"`
	CatalogManufacturer string `toml:"catalog_manufacturer" env:"CATALOG_MANUFACTURER"`
	ReportFile          string `toml:"report_file" env:"REPORT_FILE"` // "-": stdout
	BOMHeaderRow        int    `toml:"bom_header_row" env:"BOM_HEADER_ROW"`
	Workers             int    `toml:"workers" env:"WORKERS"` // 0: GOMAXPROCS

	// Внешний поиск по order code, например "python search_components.py".
	EnrichCommand string  `toml:"enrich_command" env:"ENRICH_COMMAND"`
	EnrichRPS     float64 `toml:"enrich_rps" env:"ENRICH_RPS"`

	// Имя второй колонки отчёта: "competitor" (как в образце) или, например,
	// "competitor_manufacturer".
	ReportManufacturerColumn string `toml:"report_manufacturer_column" env:"REPORT_MANUFACTURER_COLUMN"`
}

func Default() Config {
	return Config{
		Host:                "127.0.0.1",
		Port:                8082,
		AllowOrigins:        []string{"*"},
		MaxUploadMB:         64,
		LogLevel:            "info",
		LogFile:             "logs/xref-service.log",
		CatalogDir:          "HackXplore_AIXrefBOM/Wuerth Elektronik Data Dump",
		CatalogManufacturer: "Würth Elektronik",
		ReportFile:          "results.csv",
		BOMHeaderRow:        1,
		EnrichRPS:           5,

		ReportManufacturerColumn: "competitor",
	}
}

// Load: дефолты <- TOML-файл (если задан) <- переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return cfg, fmt.Errorf("config: file %s not found", path)
		case err != nil:
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.BOMHeaderRow < 1 {
		cfg.BOMHeaderRow = 1
	}
	return cfg, nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
