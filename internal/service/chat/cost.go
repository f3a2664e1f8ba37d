package chat

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// CostEstimator computes the weight stored with each exchange. The weight
// is a proxy for completion-service token cost and drives window-size
// truncation.
type CostEstimator interface {
	Weight(question, answer string) int
}

// CharCost is the default metric: combined character length of question
// and answer.
type CharCost struct{}

func (CharCost) Weight(question, answer string) int {
	return len([]rune(question)) + len([]rune(answer))
}

// TokenCost counts model tokens instead of characters, for budgets meant
// to track upstream billing more closely.
type TokenCost struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCost(model string) (*TokenCost, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding for %q: %w", model, err)
	}
	return &TokenCost{enc: enc}, nil
}

func (t *TokenCost) Weight(question, answer string) int {
	return len(t.enc.Encode(question, nil, nil)) + len(t.enc.Encode(answer, nil, nil))
}
