package models

// Review -- канонический отзыв покупателя.
// Натуральный ключ: review_id (`{platform}_{externalID}`), глобальный для
// всего хранилища, независимо от магазина.
type Review struct {
	ID       string `json:"id,omitempty"`
	ReviewID string `json:"review_id"`
	// Product -- ссылка на карточку товара в хранилище (не внешний id).
	Product string `json:"product,omitempty"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	// ReviewDate -- дата отзыва без времени, в формате YYYY-MM-DD.
	ReviewDate string `json:"review_date"`
	// ReviewCreatedDate -- полный момент времени отзыва, RFC 3339.
	ReviewCreatedDate string                 `json:"review_created_date"`
	Sentiment         string                 `json:"sentiment"`
	Status            string                 `json:"status"`
	Store             string                 `json:"store,omitempty"`
	User              string                 `json:"user,omitempty"`
	Platform          PlatformType           `json:"platform"`
	ExtraFields       map[string]interface{} `json:"extra_fields"`

	// ExternalProductID -- внешний id товара у площадки; используется для
	// сопоставления отзыва с уже сохранённой карточкой и не персистится.
	ExternalProductID string `json:"-"`
}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"

	ReviewStatusPublished = "published"
)
