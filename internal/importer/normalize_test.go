package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync_api/internal/core/models"
)

func TestSentimentFromRating(t *testing.T) {
	tests := []struct {
		rating int
		want   string
	}{
		{5, models.SentimentPositive},
		{4, models.SentimentPositive},
		{3, models.SentimentNeutral},
		{2, models.SentimentNegative},
		{1, models.SentimentNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentFromRating(tt.rating), "rating=%d", tt.rating)
	}
}

func TestReviewTargetID(t *testing.T) {
	assert.Equal(t, "trendyol_12345", ReviewTargetID(models.PlatformTrendyol, "12345"))
	assert.Equal(t, "hepsiburada_abc", ReviewTargetID(models.PlatformHepsiburada, "abc"))

	// один и тот же внешний id даёт один и тот же ключ
	first := ReviewTargetID(models.PlatformTrendyol, "777")
	second := ReviewTargetID(models.PlatformTrendyol, "777")
	assert.Equal(t, first, second)
}

func TestParseReviewTimestampISO(t *testing.T) {
	ts, err := ParseReviewTimestamp("2024-03-15T10:30:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 15, ts.Day())
	assert.Equal(t, "2024-03-15", FormatReviewDate(ts))
}

func TestParseReviewTimestampEpochMillis(t *testing.T) {
	// как float64 -- так json раскладывает числа
	ts, err := ParseReviewTimestamp(float64(1710498600000))
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())

	// и как строка с цифрами
	ts2, err := ParseReviewTimestamp("1710498600000")
	require.NoError(t, err)
	assert.True(t, ts.Equal(ts2))
}

func TestParseReviewTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseReviewTimestamp(nil)
	assert.Error(t, err)
	_, err = ParseReviewTimestamp("")
	assert.Error(t, err)
	_, err = ParseReviewTimestamp("yesterday")
	assert.Error(t, err)
	_, err = ParseReviewTimestamp(true)
	assert.Error(t, err)
}

func TestFormatReviewCreatedDate(t *testing.T) {
	ts, err := ParseReviewTimestamp("2024-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T10:30:00Z", FormatReviewCreatedDate(ts))
}
