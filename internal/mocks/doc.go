// Package mocks provides hand-written test doubles shared across packages.
//
// Each mock records its calls and either returns canned values or
// delegates to a function field:
//
//	gen := &mocks.MockGenerator{
//	    GenerateCardsFn: func(ctx context.Context, prompt string) ([]domain.Flashcard, error) {
//	        return cards, nil
//	    },
//	}
package mocks
