package trendyol

import (
	"errors"
	"fmt"
	"strconv"

	"storesync_api/internal/core/models"
	"storesync_api/internal/importer"
)

var errEmptyContent = errors.New("review has no textual content")

// mappedProductKeys -- поля источника, у которых есть каноническое место.
// Все остальные поля уходят в extra_fields без потерь.
var mappedProductKeys = map[string]struct{}{
	"productCode":  {},
	"stockCode":    {},
	"title":        {},
	"description":  {},
	"salePrice":    {},
	"categoryName": {},
	"approved":     {},
	"archived":     {},
	"productUrl":   {},
	"images":       {},
}

// normalizeProduct отображает сырую карточку Trendyol в каноническую форму.
func normalizeProduct(raw map[string]interface{}) models.Product {
	status := models.ProductStatusDraft
	if boolField(raw, "approved") && !boolField(raw, "archived") {
		status = models.ProductStatusPublished
	}

	product := models.Product{
		ProductID:   anyToString(raw["productCode"]),
		SKU:         stringField(raw, "stockCode"),
		Name:        stringField(raw, "title"),
		Description: stringField(raw, "description"),
		Price:       floatField(raw, "salePrice"),
		Category:    stringField(raw, "categoryName"),
		Status:      status,
		URL:         stringField(raw, "productUrl"),
		Images:      imageURLs(raw["images"]),
		Platform:    models.PlatformTrendyol,
		ExtraFields: make(map[string]interface{}),
	}

	for key, value := range raw {
		if _, mapped := mappedProductKeys[key]; !mapped {
			product.ExtraFields[key] = value
		}
	}
	return product
}

var mappedReviewKeys = map[string]struct{}{
	"id":          {},
	"comment":     {},
	"rate":        {},
	"commentDate": {},
}

// normalizeReview отображает сырой отзыв Trendyol в каноническую форму.
// Временная метка здесь -- ISO-8601 строка с таймзоной.
func normalizeReview(raw map[string]interface{}, externalProductID string) (models.Review, error) {
	content := stringField(raw, "comment")
	if content == "" {
		return models.Review{}, errEmptyContent
	}

	externalID := anyToString(raw["id"])
	if externalID == "" {
		return models.Review{}, fmt.Errorf("review has no external id")
	}

	timestamp, err := importer.ParseReviewTimestamp(raw["commentDate"])
	if err != nil {
		return models.Review{}, fmt.Errorf("review %s: %w", externalID, err)
	}

	rating := int(floatField(raw, "rate"))
	review := models.Review{
		ReviewID:          importer.ReviewTargetID(models.PlatformTrendyol, externalID),
		Content:           content,
		Rating:            rating,
		ReviewDate:        importer.FormatReviewDate(timestamp),
		ReviewCreatedDate: importer.FormatReviewCreatedDate(timestamp),
		Sentiment:         importer.SentimentFromRating(rating),
		Status:            models.ReviewStatusPublished,
		Platform:          models.PlatformTrendyol,
		ExtraFields:       make(map[string]interface{}),
		ExternalProductID: externalProductID,
	}

	for key, value := range raw {
		if _, mapped := mappedReviewKeys[key]; !mapped {
			review.ExtraFields[key] = value
		}
	}
	return review, nil
}

func imageURLs(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if image, ok := item.(map[string]interface{}); ok {
			if u := anyToString(image["url"]); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

func stringField(raw map[string]interface{}, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func boolField(raw map[string]interface{}, key string) bool {
	if b, ok := raw[key].(bool); ok {
		return b
	}
	return false
}

func floatField(raw map[string]interface{}, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// anyToString приводит внешние идентификаторы к строке: источник отдаёт их
// то числом, то строкой.
func anyToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
