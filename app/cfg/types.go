package cfg

type Cfg struct {
	// Twitter credentials
	BearerToken    string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// Generator (OpenAI-compatible) configuration
	GeneratorKey   string
	GeneratorURL   string
	GeneratorModel string

	// Pipeline configuration
	KeywordsFile  string
	StateFile     string
	ReferralURL   string
	TargetLang    string
	PageSize      int
	PollInterval  int
	RateLimitWait int
	AutoWaitReset bool
	MaxAutoWait   int
	MinRemaining  int

	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	DryRun    bool
	Debug     bool
	Version   string
}
