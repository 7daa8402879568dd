package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storesync_api/internal/core/models"
)

// SentimentFromRating выводит тональность из оценки по фиксированным
// порогам пятибалльной шкалы: >=4 positive, ==3 neutral, <3 negative.
func SentimentFromRating(rating int) string {
	switch {
	case rating >= 4:
		return models.SentimentPositive
	case rating == 3:
		return models.SentimentNeutral
	default:
		return models.SentimentNegative
	}
}

// ReviewTargetID строит детерминированный ключ дедупликации отзыва:
// `{platform}_{externalID}`.
func ReviewTargetID(platform models.PlatformType, externalID string) string {
	return fmt.Sprintf("%s_%s", platform, externalID)
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// ParseReviewTimestamp разбирает платформенное представление времени отзыва.
// Площадки отдают либо ISO-8601 строку с таймзоной, либо целые миллисекунды
// эпохи; формат определяется по самому значению.
func ParseReviewTimestamp(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is missing")
	case float64:
		// json раскладывает числа в float64
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, fmt.Errorf("timestamp is empty")
		}
		if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(millis).UTC(), nil
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
	default:
		return time.Time{}, fmt.Errorf("unrecognized timestamp type %T", value)
	}
}

// FormatReviewDate возвращает дату отзыва без времени (локальную для
// платформы) в формате хранилища.
func FormatReviewDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatReviewCreatedDate возвращает полный момент времени в формате RFC 3339.
func FormatReviewCreatedDate(t time.Time) string {
	return t.Format(time.RFC3339)
}
