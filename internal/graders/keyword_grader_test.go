package graders

import (
	"context"
	"testing"

	"github.com/spboyer/callqa/internal/models"
	"github.com/stretchr/testify/require"
)

func TestKeywordGrader_Basic(t *testing.T) {
	g, err := NewKeywordGrader(KeywordGraderArgs{
		Name:     "test",
		Keywords: []string{"hello"},
		Weight:   10,
	})
	require.NoError(t, err)

	require.Equal(t, models.GraderKindKeyword, g.Kind())
	require.Equal(t, "test", g.Name())
}

func TestKeywordGrader_NegativeWeight(t *testing.T) {
	_, err := NewKeywordGrader(KeywordGraderArgs{Name: "bad", Weight: -1})
	require.Error(t, err)
}

func TestKeywordGrader_Grade(t *testing.T) {
	keywords := []string{"verify your details", "date of birth", "ID number"}

	t.Run("no keywords matched", func(t *testing.T) {
		g, err := NewKeywordGrader(KeywordGraderArgs{Name: "Authentication", Keywords: keywords, Weight: 20})
		require.NoError(t, err)

		results, err := g.Grade(context.Background(), &Context{Transcript: "good morning"})
		require.NoError(t, err)
		require.False(t, results.Passed)
		require.Equal(t, 0.0, results.Score)
		require.Equal(t, 20.0, results.Weight)
		require.Equal(t, "Needs improvement - Missing keywords: verify your details, date of birth, ID number", results.Feedback)
		require.Equal(t, 0, results.Details["matches"])
	})

	t.Run("one keyword earns half the weight", func(t *testing.T) {
		g, err := NewKeywordGrader(KeywordGraderArgs{Name: "Authentication", Keywords: keywords, Weight: 20})
		require.NoError(t, err)

		results, err := g.Grade(context.Background(), &Context{Transcript: "What is your Date Of Birth?"})
		require.NoError(t, err)
		require.False(t, results.Passed)
		require.Equal(t, 10.0, results.Score)
		require.Equal(t, CommentAverage, results.Feedback)
		require.Equal(t, []string{"date of birth"}, results.Details["matched"])
	})

	t.Run("two keywords earn full weight", func(t *testing.T) {
		g, err := NewKeywordGrader(KeywordGraderArgs{Name: "Authentication", Keywords: keywords, Weight: 20})
		require.NoError(t, err)

		results, err := g.Grade(context.Background(), &Context{Transcript: "please verify your details and id number"})
		require.NoError(t, err)
		require.True(t, results.Passed)
		require.Equal(t, 20.0, results.Score)
		require.Equal(t, CommentExcellent, results.Feedback)
		require.Equal(t, 100.0, results.Details["percentage"])
	})

	t.Run("repeated keyword counts once", func(t *testing.T) {
		g, err := NewKeywordGrader(KeywordGraderArgs{Name: "Authentication", Keywords: keywords, Weight: 20})
		require.NoError(t, err)

		results, err := g.Grade(context.Background(), &Context{Transcript: "date of birth, date of birth, date of birth"})
		require.NoError(t, err)
		require.Equal(t, 10.0, results.Score)
	})

	t.Run("empty keyword list never scores", func(t *testing.T) {
		g, err := NewKeywordGrader(KeywordGraderArgs{Name: "Empty", Weight: 5})
		require.NoError(t, err)

		results, err := g.Grade(context.Background(), &Context{Transcript: "anything"})
		require.NoError(t, err)
		require.Equal(t, 0.0, results.Score)
		require.Equal(t, "Needs improvement - Missing keywords: ", results.Feedback)
	})
}

func TestTieredScore(t *testing.T) {
	for _, weight := range []int{5, 10, 20} {
		require.Equal(t, 0.0, TieredScore(0, weight))
		require.Equal(t, float64(weight)*0.5, TieredScore(1, weight))
		require.Equal(t, float64(weight), TieredScore(2, weight))
		require.Equal(t, float64(weight), TieredScore(7, weight))
	}
	require.Equal(t, 0.0, TieredScore(3, 0))
}

func TestScore(t *testing.T) {
	keywords := []string{"recap", "PTP date", "amount"}

	require.Equal(t, 0.0, Score("", keywords, 5))
	require.Equal(t, 2.5, Score("let me recap", keywords, 5))
	require.Equal(t, 5.0, Score("the ptp date and amount", keywords, 5))
	require.Equal(t, 0.0, Score("recap the ptp date", keywords, 0))
}

func TestPercentage(t *testing.T) {
	require.Equal(t, 0.0, Percentage(0, 0))
	require.Equal(t, 50.0, Percentage(2.5, 5))
	require.Equal(t, 100.0, Percentage(20, 20))
}

func TestComment(t *testing.T) {
	keywords := []string{"a", "b"}
	tests := []struct {
		pct  float64
		want string
	}{
		{100, CommentExcellent},
		{80, CommentExcellent},
		{79.9, CommentGood},
		{60, CommentGood},
		{59, CommentAverage},
		{40, CommentAverage},
		{39.9, "Needs improvement - Missing keywords: a, b"},
		{0, "Needs improvement - Missing keywords: a, b"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Comment(tt.pct, keywords), "pct=%v", tt.pct)
	}
}
