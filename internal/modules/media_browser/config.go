package media_browser

// Config holds the media browser module configuration.
type Config struct {
	// TMDBToken is the TMDB API read access token (the long v4 bearer
	// token, not the v3 API key).
	TMDBToken string `env:"TMDB_BEARER_TOKEN,notEmpty"`

	// Language is the BCP 47 tag sent with catalog requests.
	Language string `env:"TMDB_LANGUAGE" envDefault:"en-US"`

	// Region selects whose watch providers are shown.
	Region string `env:"TMDB_WATCH_REGION" envDefault:"US"`
}
