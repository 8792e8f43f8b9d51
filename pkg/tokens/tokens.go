// Package tokens counts model sub-word tokens in text and files.
//
// Token counts estimate how much of an LLM context window a generated
// code bank will consume. The default counter uses a real BPE encoding
// (cl100k_base); when the encoding cannot be loaded, a byte-length
// estimator stands in so the pipeline still produces numbers.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used by the default counter.
const DefaultEncoding = "cl100k_base"

// Counter converts text into a count of model-specific sub-word units.
// The pipeline treats the count as an opaque integer.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) (int, error)
	// Name identifies the counting scheme (for display).
	Name() string
}

// tiktokenCounter counts tokens with a tiktoken BPE encoding.
type tiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktoken creates a Counter backed by the named tiktoken encoding.
// Loading an encoding may fetch its vocabulary on first use.
func NewTiktoken(encoding string) (Counter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &tiktokenCounter{encoding: encoding, enc: enc}, nil
}

func (c *tiktokenCounter) Count(text string) (int, error) {
	return len(c.enc.Encode(text, nil, nil)), nil
}

func (c *tiktokenCounter) Name() string { return c.encoding }

// Estimator approximates token counts from byte length without a
// vocabulary. English prose and source code average roughly four bytes
// per token across common BPE encodings.
type Estimator struct{}

// NewEstimator creates the fallback counter.
func NewEstimator() Counter { return Estimator{} }

// Count returns an estimate of the token count of text.
func (Estimator) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return (len(text) + 3) / 4, nil
}

func (Estimator) Name() string { return "estimate" }
