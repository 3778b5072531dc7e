package config

// DefaultConfig returns the built-in configuration values. The YAML file
// loaded from ConfigDir is merged on top of this, so any section (or
// field) a deployment omits falls back to these values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Models: ModelsConfig{
			VisionModel: "gpt-4o-mini",
			TextModel:   "gpt-4o-mini",
		},
		Sampling: SamplingConfig{
			MaxClassifyImages:  4,
			MaxChecklistImages: 6,
		},
		Images: ImageConfig{
			ClassifyMaxEdge:  512,
			ClassifyQuality:  70,
			ChecklistMaxEdge: 768,
			ChecklistQuality: 80,
			MaxEdge:          2048,
			Quality:          85,
		},
		RateLimit: RateLimitConfig{
			TPM:                90000,
			RPM:                500,
			MaxConcurrentCalls: 3,
		},
		Cache: CacheConfig{
			ExpireSeconds: 3600,
		},
		Batch: BatchConfig{
			ChecklistBatchSize: 6,
		},
		Inference: InferenceConfig{
			Address:        "localhost:50051",
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		Security: SecurityConfig{
			AllowLocalhostURLs: true,
		},
		Paths: PathsConfig{
			DataDir: "data",
			DemoDir: "demo",
		},
	}
}
