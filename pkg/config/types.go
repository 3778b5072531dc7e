package config

// Section types loaded from the YAML configuration file. Each maps to one
// concern of the pipeline and is independently defaultable and validatable.

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required,min=1,max=65535"`
}

// ModelsConfig names the two model identifiers the inference adapter
// targets. VisionModel handles every call that includes image parts
// (classification, checklist evaluation, product inventory); TextModel
// handles the pros/cons synthesis call, which takes only structured text.
type ModelsConfig struct {
	VisionModel string `yaml:"vision_model" validate:"required"`
	TextModel   string `yaml:"text_model" validate:"required"`
}

// SamplingConfig bounds how many images from a room (or house) are handed
// to each pipeline stage, keeping prompt size and cost predictable.
type SamplingConfig struct {
	MaxClassifyImages  int `yaml:"max_classify_images" validate:"required,min=1"`
	MaxChecklistImages int `yaml:"max_checklist_images" validate:"required,min=1"`
}

// ImageConfig controls the normalizer's resize/recompress targets.
// Classification and checklist evaluation get their own, smaller edge and
// quality targets, since the model only needs enough resolution to answer
// a coarse question. MaxEdge/Quality are loaded and validated, but no
// pipeline stage reads them.
type ImageConfig struct {
	ClassifyMaxEdge  int `yaml:"classify_max_edge" validate:"required,min=32"`
	ClassifyQuality  int `yaml:"classify_quality" validate:"required,min=1,max=100"`
	ChecklistMaxEdge int `yaml:"checklist_max_edge" validate:"required,min=32"`
	ChecklistQuality int `yaml:"checklist_quality" validate:"required,min=1,max=100"`
	MaxEdge          int `yaml:"max_edge" validate:"required,min=32"`
	Quality          int `yaml:"quality" validate:"required,min=1,max=100"`
}

// RateLimitConfig parameterizes the governor's token-bucket and
// concurrency ceiling. TPM/RPM mirror the upstream provider's published
// limits; MaxConcurrentCalls additionally caps in-flight requests
// regardless of remaining budget.
type RateLimitConfig struct {
	TPM                int `yaml:"tpm" validate:"required,min=1"`
	RPM                int `yaml:"rpm" validate:"required,min=1"`
	MaxConcurrentCalls int `yaml:"max_concurrent_calls" validate:"required,min=1"`
}

// CacheConfig controls the TTL applied to cached checklist definitions.
type CacheConfig struct {
	ExpireSeconds int `yaml:"expire_seconds" validate:"required,min=1"`
}

// BatchConfig controls how many checklist items are sent to the model per
// evaluation call.
type BatchConfig struct {
	ChecklistBatchSize int `yaml:"checklist_batch_size" validate:"required,min=1"`
}

// InferenceConfig points at the gRPC inference endpoint. TimeoutSeconds
// and MaxRetries are loaded and validated, but the inference client does
// not read them: its retry policy is fixed at six retries with exponential
// backoff, and no per-call timeout is applied.
type InferenceConfig struct {
	Address        string `yaml:"address" validate:"required"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"required,min=1"`
	MaxRetries     int    `yaml:"max_retries" validate:"min=0"`
}

// SecurityConfig gates acquisition of images from arbitrary URLs.
type SecurityConfig struct {
	AllowLocalhostURLs bool `yaml:"allow_localhost_urls"`
}

// PathsConfig locates the checklist definition tree and the demo/simulate
// root on disk. Relative paths are resolved against ConfigDir.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" validate:"required"`
	DemoDir string `yaml:"demo_dir" validate:"required"`
}
