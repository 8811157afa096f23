package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = "/usr/local/var/vulgata/data/bible"
	}
	if cfg.Content.LatinFile == "" {
		cfg.Content.LatinFile = "latin.json"
	}
	if cfg.Content.EnglishFile == "" {
		cfg.Content.EnglishFile = "english.json"
	}
	if cfg.Content.SpanishFile == "" {
		cfg.Content.SpanishFile = "spanish.json"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/vulgata/data/db/reader.db"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 50
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 500
	}
	if cfg.Search.Fuzziness == 0 {
		cfg.Search.Fuzziness = 1
	}
	if cfg.Reader.DefaultWPM == 0 {
		cfg.Reader.DefaultWPM = 250
	}
	if cfg.Reader.Language == "" {
		cfg.Reader.Language = "latin"
	}
	if cfg.Reader.PunctuationPause == nil {
		t := true
		cfg.Reader.PunctuationPause = &t
	}
	if cfg.Dictionary.CacheSize == 0 {
		cfg.Dictionary.CacheSize = 8
	}
}
