package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/evotrack/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 365
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	MaxPrecision        = 4
	DefaultWindow       = 3
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ComponentWeightsRaw holds composite-weight overrides from the YAML config
// file. Only the provided components override the defaults; the merged map
// is still subject to the sum-to-1.0 rule when the scoring engine is built.
type ComponentWeightsRaw struct {
	FacialBeauty     *float64 `mapstructure:"facial_beauty"`
	BodyProportion   *float64 `mapstructure:"body_proportion"`
	SkinQuality      *float64 `mapstructure:"skin_quality"`
	Symmetry         *float64 `mapstructure:"symmetry"`
	ContentQuality   *float64 `mapstructure:"content_quality"`
	SocialEngagement *float64 `mapstructure:"social_engagement"`
	Consistency      *float64 `mapstructure:"consistency"`
	Uniqueness       *float64 `mapstructure:"uniqueness"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	BundlePath  string
	StartTime   time.Time
	EndTime     time.Time
	EventType   schema.ChangeType // empty means no type filter
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	PeriodAStart time.Time
	PeriodAEnd   time.Time
	PeriodBStart time.Time
	PeriodBEnd   time.Time

	Window int // Moving-average window for score analysis

	VisionPath  string
	SocialPath  string
	ContentPath string
	ScoreSource string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	// ComponentWeights is the merged defaults + config-file overrides used
	// to build the composite scoring engine.
	ComponentWeights map[schema.ComponentKey]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	BundlePathStr string

	// Bundle is the --bundle flag fallback for commands whose positional
	// argument is consumed by something else (e.g. an input file).
	Bundle string `mapstructure:"bundle"`

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	From              string `mapstructure:"from"`
	To                string `mapstructure:"to"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from eventsCmd.Flags() ---
	Type string `mapstructure:"type"`

	// --- Fields from periodsCmd.Flags() ---
	AStart string `mapstructure:"a-start"`
	AEnd   string `mapstructure:"a-end"`
	BStart string `mapstructure:"b-start"`
	BEnd   string `mapstructure:"b-end"`

	// --- Fields from scoresCmd.Flags() ---
	Window int    `mapstructure:"window"`
	Source string `mapstructure:"source"`

	// --- Fields from compositeCmd.Flags() ---
	Vision  string `mapstructure:"vision"`
	Social  string `mapstructure:"social"`
	Content string `mapstructure:"content"`

	// --- Composite weight overrides from config file ---
	Weights ComponentWeightsRaw `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ComponentWeights != nil {
		clone.ComponentWeights = make(map[schema.ComponentKey]float64)
		maps.Copy(clone.ComponentWeights, c.ComponentWeights)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processPeriodRanges(cfg, input); err != nil {
		return err
	}
	if err := processComponentWeights(cfg, input); err != nil {
		return err
	}
	if err := resolveBundlePath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidCacheBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return err
		}

		// Cache and analysis must not share a SQLite database file; both
		// stores run their own migrations and would clobber each other.
		if cfg.CacheBackend == cfg.AnalysisBackend && cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			analysisDBPath := cfg.AnalysisDBConnect
			if analysisDBPath == "" {
				analysisDBPath = GetAnalysisDBFilePath()
			}
			if cacheDBPath == analysisDBPath {
				return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.VisionPath = input.Vision
	cfg.SocialPath = input.Social
	cfg.ContentPath = input.Content
	cfg.ScoreSource = input.Source
	cfg.Width = input.Width

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Event Type Validation ---
	if input.Type != "" {
		cfg.EventType = schema.ChangeType(strings.ToLower(input.Type))
		if _, ok := schema.ValidChangeTypes[cfg.EventType]; !ok {
			return fmt.Errorf("invalid change type '%s'. must be one of %v", input.Type, schema.AllChangeTypes)
		}
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 4. Window Validation ---
	if input.Window < 1 {
		return fmt.Errorf("window must be at least 1 (received %d)", input.Window)
	}
	cfg.Window = input.Window

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processTimeRange handles the date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.EndTime = now
	cfg.StartTime = cfg.EndTime.Add(-DefaultLookbackDays * 24 * time.Hour)

	// --- Process Start Time ---
	if input.From != "" {
		t, err := ParseFlexibleTime(input.From, now)
		if err != nil {
			return fmt.Errorf("invalid --from value '%s'. Expected absolute ISO8601 or 'N [units] ago': %w", input.From, err)
		}
		cfg.StartTime = t
	}

	// --- Process End Time ---
	if input.To != "" {
		t, err := ParseFlexibleTime(input.To, now)
		if err != nil {
			return fmt.Errorf("invalid --to value '%s'. Expected absolute ISO8601 or 'N [units] ago': %w", input.To, err)
		}
		cfg.EndTime = t
	}

	// --- Final Validation ---
	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	return nil
}

// processPeriodRanges handles the period-comparison boundaries. All four
// must be given together, or none at all.
func processPeriodRanges(cfg *Config, input *ConfigRawInput) error {
	raws := []string{input.AStart, input.AEnd, input.BStart, input.BEnd}

	given := 0
	for _, r := range raws {
		if r != "" {
			given++
		}
	}
	if given == 0 {
		return nil
	}
	if given != len(raws) {
		return fmt.Errorf("period comparison requires all of --a-start, --a-end, --b-start, --b-end")
	}

	now := time.Now()
	parsed := make([]time.Time, len(raws))
	for i, r := range raws {
		t, err := ParseFlexibleTime(r, now)
		if err != nil {
			return fmt.Errorf("invalid period boundary '%s': %w", r, err)
		}
		parsed[i] = t
	}
	cfg.PeriodAStart, cfg.PeriodAEnd, cfg.PeriodBStart, cfg.PeriodBEnd = parsed[0], parsed[1], parsed[2], parsed[3]

	if cfg.PeriodAStart.After(cfg.PeriodAEnd) {
		return fmt.Errorf("period A start (%s) cannot be after its end", cfg.PeriodAStart.Format(DateTimeFormat))
	}
	if cfg.PeriodBStart.After(cfg.PeriodBEnd) {
		return fmt.Errorf("period B start (%s) cannot be after its end", cfg.PeriodBStart.Format(DateTimeFormat))
	}
	return nil
}

// ProcessWeightsRawInput merges the config-file overrides over the default
// component weights. The merged map is returned even when it no longer sums
// to 1.0; the scoring engine rejects such a set at construction.
func ProcessWeightsRawInput(weights ComponentWeightsRaw) map[schema.ComponentKey]float64 {
	merged := schema.GetDefaultComponentWeights()

	overrides := map[schema.ComponentKey]*float64{
		schema.FacialBeautyComponent:     weights.FacialBeauty,
		schema.BodyProportionComponent:   weights.BodyProportion,
		schema.SkinQualityComponent:      weights.SkinQuality,
		schema.SymmetryComponent:         weights.Symmetry,
		schema.ContentQualityComponent:   weights.ContentQuality,
		schema.SocialEngagementComponent: weights.SocialEngagement,
		schema.ConsistencyComponent:      weights.Consistency,
		schema.UniquenessComponent:       weights.Uniqueness,
	}
	for key, value := range overrides {
		if value != nil {
			merged[key] = *value
		}
	}
	return merged
}

// processComponentWeights fills cfg.ComponentWeights from defaults plus any
// config-file overrides.
func processComponentWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.ComponentWeights = ProcessWeightsRawInput(input.Weights)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveBundlePath resolves the bundle directory to an absolute path. The
// directory does not have to exist yet; add operations create it. An
// existing path must be a directory.
func resolveBundlePath(cfg *Config, input *ConfigRawInput) error {
	if input.BundlePathStr == "" {
		return fmt.Errorf("bundle path is required; pass it as the first argument or via --bundle")
	}

	absPath, err := filepath.Abs(input.BundlePathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	if info, statErr := os.Stat(absPath); statErr == nil && !info.IsDir() {
		return fmt.Errorf("bundle path %q is a file; expected a directory", absPath)
	}

	cfg.BundlePath = absPath
	return nil
}
