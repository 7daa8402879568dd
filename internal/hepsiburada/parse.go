package hepsiburada

import (
	"errors"
	"fmt"
	"strconv"

	"storesync_api/internal/core/models"
	"storesync_api/internal/importer"
)

var errEmptyContent = errors.New("review has no textual content")

var mappedListingKeys = map[string]struct{}{
	"hbSku":        {},
	"merchantSku":  {},
	"listingName":  {},
	"description":  {},
	"price":        {},
	"categoryName": {},
	"isSalable":    {},
	"url":          {},
	"images":       {},
}

// normalizeProduct отображает сырой листинг Hepsiburada в каноническую
// форму. Цена приходит вложенным объектом {amount, currency}.
func normalizeProduct(raw map[string]interface{}) models.Product {
	status := models.ProductStatusDraft
	if boolField(raw, "isSalable") {
		status = models.ProductStatusPublished
	}

	product := models.Product{
		ProductID:   anyToString(raw["hbSku"]),
		SKU:         stringField(raw, "merchantSku"),
		Name:        stringField(raw, "listingName"),
		Description: stringField(raw, "description"),
		Price:       priceAmount(raw["price"]),
		Category:    stringField(raw, "categoryName"),
		Status:      status,
		URL:         stringField(raw, "url"),
		Images:      imageURLs(raw["images"]),
		Platform:    models.PlatformHepsiburada,
		ExtraFields: make(map[string]interface{}),
	}

	for key, value := range raw {
		if _, mapped := mappedListingKeys[key]; !mapped {
			product.ExtraFields[key] = value
		}
	}
	return product
}

var mappedReviewKeys = map[string]struct{}{
	"id":        {},
	"review":    {},
	"star":      {},
	"createdAt": {},
	"hbSku":     {},
}

// normalizeReview отображает сырой отзыв Hepsiburada в каноническую форму.
// Временная метка здесь -- целые миллисекунды эпохи. hbSku связывает отзыв
// с карточкой каталога при breadth-first сопоставлении.
func normalizeReview(raw map[string]interface{}) (models.Review, error) {
	content := stringField(raw, "review")
	if content == "" {
		return models.Review{}, errEmptyContent
	}

	externalID := anyToString(raw["id"])
	if externalID == "" {
		return models.Review{}, fmt.Errorf("review has no external id")
	}

	timestamp, err := importer.ParseReviewTimestamp(raw["createdAt"])
	if err != nil {
		return models.Review{}, fmt.Errorf("review %s: %w", externalID, err)
	}

	rating := int(floatField(raw, "star"))
	review := models.Review{
		ReviewID:          importer.ReviewTargetID(models.PlatformHepsiburada, externalID),
		Content:           content,
		Rating:            rating,
		ReviewDate:        importer.FormatReviewDate(timestamp),
		ReviewCreatedDate: importer.FormatReviewCreatedDate(timestamp),
		Sentiment:         importer.SentimentFromRating(rating),
		Status:            models.ReviewStatusPublished,
		Platform:          models.PlatformHepsiburada,
		ExtraFields:       make(map[string]interface{}),
		ExternalProductID: anyToString(raw["hbSku"]),
	}

	for key, value := range raw {
		if _, mapped := mappedReviewKeys[key]; !mapped {
			review.ExtraFields[key] = value
		}
	}
	return review, nil
}

func priceAmount(value interface{}) float64 {
	switch v := value.(type) {
	case map[string]interface{}:
		if amount, ok := v["amount"].(float64); ok {
			return amount
		}
	case float64:
		return v
	}
	return 0
}

func imageURLs(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if u, ok := item.(string); ok && u != "" {
			urls = append(urls, u)
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
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func anyToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
