package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder counts tokens for batch budgeting: collection keeps adding groups
// until the batch holds the configured number of tokens.
type Encoder interface {
	Count(text string) (int, error)
}

// TiktokenEncoder implements Encoder using tiktoken-go
type TiktokenEncoder struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEncoder creates a new tiktoken encoder
func NewTiktokenEncoder(encodingName string) (*TiktokenEncoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding %s: %w", encodingName, err)
	}
	return &TiktokenEncoder{encoding: encoding}, nil
}

// Count returns the number of tokens in text
func (e *TiktokenEncoder) Count(text string) (int, error) {
	return len(e.encoding.Encode(text, nil, nil)), nil
}

// HeuristicEncoder estimates ~4 characters per token; used offline when the
// tiktoken vocabulary is unavailable.
type HeuristicEncoder struct{}

func NewHeuristicEncoder() *HeuristicEncoder { return &HeuristicEncoder{} }

// Count returns the estimated number of tokens in text.
func (e *HeuristicEncoder) Count(text string) (int, error) {
	count := len(text) / 4
	if count < 1 && len(text) > 0 {
		count = 1
	}
	return count, nil
}

// NewEncoder returns a tiktoken encoder when the vocabulary can be loaded
// and the heuristic fallback otherwise.
func NewEncoder(encodingName string) Encoder {
	if enc, err := NewTiktokenEncoder(encodingName); err == nil {
		return enc
	}
	return NewHeuristicEncoder()
}
