package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Twitter credentials
	BearerToken    string `long:"bearer-token" env:"TWITTER_BEARER_TOKEN" description:"Twitter API v2 bearer token (app context, used for search)"`
	ConsumerKey    string `long:"consumer-key" env:"TWITTER_CONSUMER_KEY" description:"Twitter OAuth1 consumer key (used for posting replies)"`
	ConsumerSecret string `long:"consumer-secret" env:"TWITTER_CONSUMER_SECRET" description:"Twitter OAuth1 consumer secret"`
	AccessToken    string `long:"access-token" env:"TWITTER_ACCESS_TOKEN" description:"Twitter OAuth1 access token"`
	AccessSecret   string `long:"access-secret" env:"TWITTER_ACCESS_TOKEN_SECRET" description:"Twitter OAuth1 access token secret"`

	// Generator configuration
	GeneratorKey   string `long:"generator-key" env:"GENERATOR_API_KEY" description:"API key for the reply generation endpoint"`
	GeneratorURL   string `long:"generator-url" env:"GENERATOR_BASE_URL" default:"https://api.blackbox.ai" description:"Base URL of the OpenAI-compatible chat completion endpoint"`
	GeneratorModel string `long:"generator-model" env:"GENERATOR_MODEL" default:"blackboxai/openai/gpt-4" description:"Model identifier passed to the generation endpoint"`

	// Pipeline configuration
	KeywordsFile  string `long:"keywords-file" env:"KEYWORDS_FILE" default:"./config/keywords.yml" description:"Path to the keywords configuration file"`
	StateFile     string `long:"state-file" env:"STATE_FILE" default:"./data/state.json" description:"Path to the processing state file"`
	ReferralURL   string `long:"referral-url" env:"REFERRAL_URL" default:"https://www.blackbox.ai/" description:"Base referral URL included in replies"`
	TargetLang    string `long:"lang" env:"TARGET_LANG" default:"en" description:"Only mentions in this language are considered"`
	PageSize      int    `long:"page-size" env:"PAGE_SIZE" default:"50" description:"Maximum number of mentions fetched per pass (10-100)"`
	PollInterval  int    `long:"poll-interval" env:"POLL_INTERVAL" default:"300" description:"Poll interval in seconds"`
	RateLimitWait int    `long:"rate-limit-wait" env:"RATE_LIMIT_WAIT" default:"0" description:"Fixed wait in seconds after a 429 before retrying once (0 disables)"`
	AutoWaitReset bool   `long:"auto-wait" env:"AUTO_WAIT_RESET" description:"Sleep until the reported rate limit reset when still throttled after the fixed wait"`
	MaxAutoWait   int    `long:"max-auto-wait" env:"MAX_AUTO_WAIT" default:"900" description:"Upper bound in seconds for the auto-wait sleep"`
	MinRemaining  int    `long:"min-remaining" env:"MIN_REMAINING" default:"1" description:"Skip the pass when the remaining request quota is at or below this value"`

	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mention Comb/1.0" description:"User agent string for HTTP requests"`
	DryRun    bool   `long:"dry-run" env:"DRY_RUN" description:"Run matcher and composer against fixed sample mentions and exit"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// Missing .env is fine, environment variables may be set directly
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BearerToken:    raw.BearerToken,
		ConsumerKey:    raw.ConsumerKey,
		ConsumerSecret: raw.ConsumerSecret,
		AccessToken:    raw.AccessToken,
		AccessSecret:   raw.AccessSecret,
		GeneratorKey:   raw.GeneratorKey,
		GeneratorURL:   raw.GeneratorURL,
		GeneratorModel: raw.GeneratorModel,
		KeywordsFile:   raw.KeywordsFile,
		StateFile:      raw.StateFile,
		ReferralURL:    raw.ReferralURL,
		TargetLang:     raw.TargetLang,
		PageSize:       raw.PageSize,
		PollInterval:   raw.PollInterval,
		RateLimitWait:  raw.RateLimitWait,
		AutoWaitReset:  raw.AutoWaitReset,
		MaxAutoWait:    raw.MaxAutoWait,
		MinRemaining:   raw.MinRemaining,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		UserAgent:      raw.UserAgent,
		DryRun:         raw.DryRun,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// MissingCredentials returns the names of required credential settings that
// are empty. An empty result means the pipeline can talk to both APIs.
func (c *Cfg) MissingCredentials() []string {
	required := []struct {
		name  string
		value string
	}{
		{"TWITTER_BEARER_TOKEN", c.BearerToken},
		{"TWITTER_CONSUMER_KEY", c.ConsumerKey},
		{"TWITTER_CONSUMER_SECRET", c.ConsumerSecret},
		{"TWITTER_ACCESS_TOKEN", c.AccessToken},
		{"TWITTER_ACCESS_TOKEN_SECRET", c.AccessSecret},
		{"GENERATOR_API_KEY", c.GeneratorKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// Mask shortens a credential for logging: "abc***xyz", or "***" for short values.
func Mask(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 6 {
		return "***"
	}
	return v[:3] + "***" + v[len(v)-3:]
}
