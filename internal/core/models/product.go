package models

// Product -- каноническая карточка товара в хранилище контента.
// Натуральный ключ: (sku, store) ИЛИ (product_id, store) -- совпадение
// любого из двух означает "запись уже существует".
type Product struct {
	ID          string       `json:"id,omitempty"`
	ProductID   string       `json:"product_id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Category    string       `json:"category"`
	Status      string       `json:"status"`
	URL         string       `json:"url"`
	Images      []string     `json:"images"`
	Store       string       `json:"store,omitempty"`
	User        string       `json:"user,omitempty"`
	Platform    PlatformType `json:"platform"`
	// ExtraFields сохраняет без потерь все поля источника, не попавшие в
	// каноническую схему.
	ExtraFields map[string]interface{} `json:"extra_fields"`
}

const (
	ProductStatusPublished = "published"
	ProductStatusDraft     = "draft"
)
