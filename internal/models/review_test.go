package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func mustJSON(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

func boolPtr(b bool) *bool { return &b }

func TestComputeQualityScore_RatingOnly(t *testing.T) {
	t.Parallel()

	review := &Review{RatingOverall: 4}

	// 30 for the rating, nothing else given.
	assert.Equal(t, 30, review.ComputeQualityScore())
}

func TestComputeQualityScore_CommentTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		comment string
		want    int
	}{
		{"below minimum", strings.Repeat("a", 9), 30},
		{"minimum tier", strings.Repeat("a", 10), 40},
		{"middle tier", strings.Repeat("a", 25), 45},
		{"top tier", strings.Repeat("a", 50), 55},
		{"long comment same as top tier", strings.Repeat("a", 500), 55},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			review := &Review{RatingOverall: 5, Comment: tc.comment}
			assert.Equal(t, tc.want, review.ComputeQualityScore())
		})
	}
}

func TestComputeQualityScore_CommentLengthCountsRunes(t *testing.T) {
	t.Parallel()

	// 50 multibyte characters must reach the top tier.
	review := &Review{RatingOverall: 5, Comment: strings.Repeat("ж", 50)}
	assert.Equal(t, 55, review.ComputeQualityScore())
}

func TestComputeQualityScore_BreakdownCapped(t *testing.T) {
	t.Parallel()

	breakdown := map[string]int{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		breakdown[k] = 5
	}

	review := &Review{
		RatingOverall:   5,
		RatingBreakdown: mustJSON(t, breakdown),
	}

	// 8 categories * 3 = 24, capped at 20.
	assert.Equal(t, 50, review.ComputeQualityScore())
}

func TestComputeQualityScore_Images(t *testing.T) {
	t.Parallel()

	one := &Review{RatingOverall: 5, Images: mustJSON(t, []string{"https://cdn.example.com/1.jpg"})}
	assert.Equal(t, 40, one.ComputeQualityScore())

	several := &Review{RatingOverall: 5, Images: mustJSON(t, []string{
		"https://cdn.example.com/1.jpg",
		"https://cdn.example.com/2.jpg",
		"https://cdn.example.com/3.jpg",
	})}
	assert.Equal(t, 45, several.ComputeQualityScore())
}

func TestComputeQualityScore_RichReviewScenario(t *testing.T) {
	t.Parallel()

	// 5-star rating, 60-char comment, 2 breakdown categories, 1
	// image, both experience flags: 30+25+6+10+10 = 81.
	review := &Review{
		RatingOverall: 5,
		Comment:       strings.Repeat("x", 60),
		RatingBreakdown: mustJSON(t, map[string]int{
			"professionalism": 5,
			"communication":   4,
		}),
		Images:         mustJSON(t, []string{"https://cdn.example.com/photo.jpg"}),
		WouldRecommend: boolPtr(true),
		WouldHireAgain: boolPtr(false),
	}

	assert.Equal(t, 81, review.ComputeQualityScore())
	review.RecomputeQuality()
	assert.True(t, review.IsHighQuality)
}

func TestComputeQualityScore_CappedAt100(t *testing.T) {
	t.Parallel()

	review := &Review{
		RatingOverall: 5,
		Comment:       strings.Repeat("x", 200),
		RatingBreakdown: mustJSON(t, map[string]int{
			"a": 5, "b": 5, "c": 5, "d": 5, "e": 5, "f": 5, "g": 5,
		}),
		Images:         mustJSON(t, []string{"1", "2", "3", "4", "5"}),
		WouldRecommend: boolPtr(true),
		WouldHireAgain: boolPtr(true),
	}

	assert.LessOrEqual(t, review.ComputeQualityScore(), 100)
	assert.Equal(t, 100, review.ComputeQualityScore())
}

func TestRecomputeQuality_Idempotent(t *testing.T) {
	t.Parallel()

	review := &Review{
		RatingOverall: 4,
		Comment:       strings.Repeat("x", 30),
	}

	review.RecomputeQuality()
	first := review.QualityScore

	review.RecomputeQuality()
	assert.Equal(t, first, review.QualityScore)
}

func TestShouldAutoPublish(t *testing.T) {
	t.Parallel()

	review := &Review{
		Status:        ReviewStatusSubmitted,
		IsHighQuality: true,
		IsVerified:    true,
	}
	assert.True(t, review.ShouldAutoPublish())

	review.IsVerified = false
	assert.False(t, review.ShouldAutoPublish())

	review.IsVerified = true
	review.IsHighQuality = false
	assert.False(t, review.ShouldAutoPublish())

	review.IsHighQuality = true
	review.Status = ReviewStatusPublished
	assert.False(t, review.ShouldAutoPublish())
}

func TestAppendFlag_Accumulates(t *testing.T) {
	t.Parallel()

	review := &Review{}
	require.Empty(t, review.FlagList())

	err := review.AppendFlag(ReviewFlag{
		ReporterID: "user-1",
		Type:       "spam",
		Reason:     "copy-pasted text",
		At:         time.Now().UTC(),
	})
	require.NoError(t, err)

	err = review.AppendFlag(ReviewFlag{
		ReporterID: "user-2",
		Type:       "fake",
		At:         time.Now().UTC(),
	})
	require.NoError(t, err)

	flags := review.FlagList()
	require.Len(t, flags, 2)
	assert.Equal(t, "user-1", flags[0].ReporterID)
	assert.Equal(t, "spam", flags[0].Type)
	assert.Equal(t, "fake", flags[1].Type)
}

func TestBreakdownCount_InvalidJSON(t *testing.T) {
	t.Parallel()

	review := &Review{RatingBreakdown: datatypes.JSON(`not json`)}
	assert.Equal(t, 0, review.BreakdownCount())
}
