package config

const (
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBTimeoutSeconds    = 10
	defaultSearchPages           = 2
	defaultEnrichLimit           = 10
	defaultSearchConcurrency     = 5
	defaultRequestTimeoutSeconds = 8
	defaultSearchTimeoutSeconds  = 20
	defaultDebounceMillis        = 500
	defaultStorageBackend        = "sqlite"
	defaultRedisAddr             = "127.0.0.1:6379"
	defaultRedisPrefix           = "nextflix:"
	defaultServerBind            = "127.0.0.1:7488"
	defaultServerReadTimeout     = 15
	defaultServerWriteTimeout    = 60
	defaultViewSort              = "dateWatched"
	defaultViewLanguage          = "en"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogMaxSizeMB          = 10
	defaultLogMaxBackups         = 3
	defaultLogMaxAgeDays         = 28
	defaultBreakerFailures       = 5
	defaultBreakerHalfOpen       = 1
	defaultBreakerInterval       = 60
	defaultBreakerOpenSeconds    = 30
	sqliteFileName               = "nextflix.db"
	jsonFileName                 = "nextflix.json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			TimeoutSeconds: defaultTMDBTimeoutSeconds,
		},
		Search: Search{
			Pages:                 defaultSearchPages,
			EnrichLimit:           defaultEnrichLimit,
			Concurrency:           defaultSearchConcurrency,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			TimeoutSeconds:        defaultSearchTimeoutSeconds,
			DebounceMillis:        defaultDebounceMillis,
		},
		Storage: Storage{
			Backend:     defaultStorageBackend,
			DataDir:     defaultDataDir(),
			RedisAddr:   defaultRedisAddr,
			RedisPrefix: defaultRedisPrefix,
		},
		Export: Export{
			Dir: defaultExportDir(),
		},
		Server: Server{
			Bind:                defaultServerBind,
			ReadTimeoutSeconds:  defaultServerReadTimeout,
			WriteTimeoutSeconds: defaultServerWriteTimeout,
		},
		ContentFilter: ContentFilter{
			EnabledByDefault: true,
		},
		View: View{
			DefaultSort: defaultViewSort,
			Language:    defaultViewLanguage,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Breaker: Breaker{
			Enabled:             true,
			ConsecutiveFailures: defaultBreakerFailures,
			HalfOpenRequests:    defaultBreakerHalfOpen,
			IntervalSeconds:     defaultBreakerInterval,
			OpenSeconds:         defaultBreakerOpenSeconds,
		},
	}
}
