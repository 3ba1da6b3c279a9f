package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devflow/devflow-analytics/internal/review"
)

func TestMatches_LineTolerance(t *testing.T) {
	tests := []struct {
		name      string
		found     review.Issue
		canonical review.Issue
		want      bool
	}{
		{
			name:      "exact line and type",
			found:     review.Issue{Line: 5, Type: "security"},
			canonical: review.Issue{Line: 5, Type: "security"},
			want:      true,
		},
		{
			name:      "two lines off still matches",
			found:     review.Issue{Line: 7, Type: "security"},
			canonical: review.Issue{Line: 5, Type: "security"},
			want:      true,
		},
		{
			name:      "two lines off in the other direction",
			found:     review.Issue{Line: 3, Type: "security"},
			canonical: review.Issue{Line: 5, Type: "security"},
			want:      true,
		},
		{
			name:      "three lines off does not match",
			found:     review.Issue{Line: 8, Type: "security"},
			canonical: review.Issue{Line: 5, Type: "security"},
			want:      false,
		},
		{
			name:      "type mismatch on same line",
			found:     review.Issue{Line: 5, Type: "performance"},
			canonical: review.Issue{Line: 5, Type: "security"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, review.Matches(tt.found, tt.canonical))
		})
	}
}

func TestScore(t *testing.T) {
	canonical := []review.Issue{
		{Line: 5, Type: "security"},
		{Line: 20, Type: "performance"},
	}

	t.Run("all found within tolerance", func(t *testing.T) {
		correct, acc := review.Score([]review.Issue{
			{Line: 7, Type: "security"},
			{Line: 19, Type: "performance"},
		}, canonical)
		assert.Equal(t, 2, correct)
		assert.InDelta(t, 1.0, acc, 1e-9)
	})

	t.Run("partial find", func(t *testing.T) {
		correct, acc := review.Score([]review.Issue{
			{Line: 7, Type: "security"},
			{Line: 50, Type: "style"},
		}, canonical)
		assert.Equal(t, 1, correct)
		assert.InDelta(t, 0.5, acc, 1e-9)
	})

	t.Run("canonical issue consumed at most once", func(t *testing.T) {
		correct, acc := review.Score([]review.Issue{
			{Line: 5, Type: "security"},
			{Line: 6, Type: "security"},
		}, canonical)
		assert.Equal(t, 1, correct)
		assert.InDelta(t, 0.5, acc, 1e-9)
	})

	t.Run("nothing expected, nothing found", func(t *testing.T) {
		correct, acc := review.Score(nil, nil)
		assert.Equal(t, 0, correct)
		assert.InDelta(t, 1.0, acc, 1e-9)
	})

	t.Run("nothing expected, false positives reported", func(t *testing.T) {
		correct, acc := review.Score([]review.Issue{{Line: 1, Type: "style"}}, nil)
		assert.Equal(t, 0, correct)
		assert.InDelta(t, 0.0, acc, 1e-9)
	})
}
