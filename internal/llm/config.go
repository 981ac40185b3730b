// Package llm wraps the Gemini API for embeddings and project bullet generation.
package llm

import "time"

const (
	// DefaultEmbeddingModel scores entries against job descriptions
	DefaultEmbeddingModel = "text-embedding-004"
	// DefaultGenerationModel writes project bullets
	DefaultGenerationModel = "gemini-2.5-flash-lite"
	// maxBatchSize is the Gemini limit for one batch embedding request
	maxBatchSize = 100
)

// Config holds model names and resilience settings
type Config struct {
	EmbeddingModel  string
	GenerationModel string
	BatchSize       int
	Breaker         BreakerConfig
}

// BreakerConfig tunes the circuit breaker around remote calls
type BreakerConfig struct {
	MaxRequests      uint32        // Requests allowed while half-open
	Interval         time.Duration // Window after which closed-state counts reset
	Timeout          time.Duration // How long the breaker stays open
	MinRequests      uint32        // Requests seen before the breaker may trip
	FailureThreshold float64       // Failure ratio that trips the breaker
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:  DefaultEmbeddingModel,
		GenerationModel: DefaultGenerationModel,
		BatchSize:       maxBatchSize,
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

// batchSize clamps the configured batch size to what the API accepts
func (c *Config) batchSize() int {
	if c.BatchSize <= 0 || c.BatchSize > maxBatchSize {
		return maxBatchSize
	}
	return c.BatchSize
}
