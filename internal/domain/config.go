package domain

// OutputFormat selects how query results are rendered.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// Valid reports whether the format is one of the supported renderers.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputTable, OutputJSON, OutputYAML:
		return true
	default:
		return false
	}
}

// Config holds the resolved runtime configuration.
type Config struct {
	CacheDir    string       `mapstructure:"cache_dir"`
	BaseURL     string       `mapstructure:"base_url"`
	ForceUpdate bool         `mapstructure:"force_update"`
	SortByYear  bool         `mapstructure:"sort_by_year"`
	Top         int          `mapstructure:"top"`
	Output      OutputFormat `mapstructure:"output"`
	NoColor     bool         `mapstructure:"no_color"`
	Verbosity   int          `mapstructure:"verbosity"`
}
