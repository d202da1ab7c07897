package config

import "time"

const (
	envLookupSource   = "LOOKUP_SOURCE"
	envLogFile        = "LOG_FILE"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
	envHTTPTimeout    = "HTTP_TIMEOUT"
	envUserAgent      = "USER_AGENT"
	envScoutComp      = "FBREF_SCOUT_COMP"
	envPlaceholderURL = "PLACEHOLDER_IMAGE_URL"
	envPlaceholder    = "PLACEHOLDER_IMAGE"
	envSubtitle       = "CHART_SUBTITLE"
	envBandByCategory = "CHART_BAND_BY_CATEGORY"
	envCatalogFile    = "CATALOG_FILE"
	envChartBucket    = "CHART_BUCKET"
	envChartPrefix    = "CHART_PREFIX"
	envAthenaGroup    = "ATHENA_WORKGROUP"
	envAthenaOutput   = "ATHENA_OUTPUT"

	DefaultLookupSource   = "player_profiles.xlsx"
	DefaultLogFile        = "player_selector.log"
	DefaultLogLevel       = "debug"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (compatible; FBrefPizzaBot/1.0; +https://example.com/bot)"
	DefaultScoutComp      = "12192"
	DefaultPlaceholderURL = "https://via.placeholder.com/150"
	DefaultPlaceholder    = "placeholder.jpg"
	DefaultSubtitle       = "Percentile Rank vs Premier League Players in their Position for 2023/2024"
	DefaultChartPrefix    = "charts"
	DefaultAthenaGroup    = "primary"
)

// Config holds runtime configuration shared by the CLI and the Lambda.
type Config struct {
	LookupSource string
	Log          LogConfig
	Scrape       ScrapeConfig
	Chart        ChartConfig
	CatalogFile  string
	Athena       AthenaConfig
}

type LogConfig struct {
	File   string
	Level  string
	Format string
}

type ScrapeConfig struct {
	Timeout        time.Duration
	UserAgent      string
	ScoutComp      string
	PlaceholderURL string
}

type ChartConfig struct {
	Subtitle       string
	Placeholder    string // local portrait used when the remote one can't be fetched
	BandByCategory bool
	Bucket         string
	Prefix         string
}

type AthenaConfig struct {
	Workgroup string
	Output    string // s3://bucket/prefix/ for query results
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		LookupSource: envStr(envLookupSource, DefaultLookupSource),
		Log: LogConfig{
			File:   envStr(envLogFile, DefaultLogFile),
			Level:  envStr(envLogLevel, DefaultLogLevel),
			Format: envStr(envLogFormat, "text"),
		},
		Scrape: ScrapeConfig{
			Timeout:        envDuration(envHTTPTimeout, DefaultHTTPTimeout),
			UserAgent:      envStr(envUserAgent, DefaultUserAgent),
			ScoutComp:      envStr(envScoutComp, DefaultScoutComp),
			PlaceholderURL: envStr(envPlaceholderURL, DefaultPlaceholderURL),
		},
		Chart: ChartConfig{
			Subtitle:       envStr(envSubtitle, DefaultSubtitle),
			Placeholder:    envStr(envPlaceholder, DefaultPlaceholder),
			BandByCategory: envBool(envBandByCategory, false),
			Bucket:         envStr(envChartBucket, ""),
			Prefix:         envStr(envChartPrefix, DefaultChartPrefix),
		},
		CatalogFile: envStr(envCatalogFile, ""),
		Athena: AthenaConfig{
			Workgroup: envStr(envAthenaGroup, DefaultAthenaGroup),
			Output:    envStr(envAthenaOutput, ""),
		},
	}
}
