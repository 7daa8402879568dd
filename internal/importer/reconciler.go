package importer

import (
	"context"
	"fmt"
	"io"

	"storesync_api/internal/core/models"
	"storesync_api/internal/subscription"
	"storesync_api/metrics"
	"storesync_api/pkg/directus"
	"storesync_api/pkg/logger"
)

// Reconciler сопоставляет нормализованные записи с уже сохранёнными
// сущностями и применяет квотный шлюз перед записью.
//
// Политика учёта квоты: товары тарифицируются только при создании --
// обновление не увеличивает общее число карточек. Отзывы тарифицируются
// и при создании, и при обновлении; AddReview сам останавливается на
// потолке.
type Reconciler struct {
	store  *directus.Client
	limits *subscription.Limits
	log    logger.Logger
}

func NewReconciler(store *directus.Client, limits *subscription.Limits, writer io.Writer) *Reconciler {
	return &Reconciler{
		store:  store,
		limits: limits,
		log:    logger.NewLogger(writer, "[Reconciler]"),
	}
}

// UpsertProduct создаёт или обновляет карточку товара.
// Возвращает id сохранённой сущности; пустой id без ошибки означает, что
// запись пропущена по квоте -- это штатная остановка, а не сбой.
func (r *Reconciler) UpsertProduct(ctx context.Context, product models.Product) (storedID string, created bool, err error) {
	var existing []models.Product
	err = r.store.Collection("products").
		Filter(directus.And(
			directus.Eq("store", product.Store),
			directus.Or(
				directus.Eq("sku", product.SKU),
				directus.Eq("product_id", product.ProductID),
			),
		)).
		Limit(1).
		Read(ctx, &existing)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up product %s: %w", product.SKU, err)
	}

	if len(existing) > 0 {
		found := existing[0]
		if product.User == "" {
			product.User = found.User
		}
		if err := r.store.Update(ctx, "products", found.ID, product, nil); err != nil {
			return "", false, fmt.Errorf("failed to update product %s: %w", found.ID, err)
		}
		metrics.RecordUpsert(product.Platform.String(), "product", "update")
		return found.ID, false, nil
	}

	if !r.limits.CanAddProduct() {
		r.log.Log("Product limit reached, skipping product sku=%s", product.SKU)
		metrics.RecordSkip(product.Platform.String(), "product", "quota")
		return "", false, nil
	}

	var createdProduct models.Product
	if err := r.store.Create(ctx, "products", product, &createdProduct); err != nil {
		return "", false, fmt.Errorf("failed to create product %s: %w", product.SKU, err)
	}
	r.limits.AddProduct()
	metrics.RecordUpsert(product.Platform.String(), "product", "create")
	return createdProduct.ID, true, nil
}

// UpsertReview создаёт или обновляет отзыв. Отзыв без привязки к карточке
// (review.Product == "") -- сирота: логируется и отбрасывается, квоту не
// расходует.
func (r *Reconciler) UpsertReview(ctx context.Context, review models.Review) (created bool, err error) {
	if review.Product == "" {
		r.log.Log("Warning: review %s has no matching product (external product id=%s), dropping",
			review.ReviewID, review.ExternalProductID)
		metrics.RecordSkip(review.Platform.String(), "review", "orphan")
		return false, nil
	}

	var existing []models.Review
	err = r.store.Collection("reviews").
		Filter(directus.Eq("review_id", review.ReviewID)).
		Limit(1).
		Read(ctx, &existing)
	if err != nil {
		return false, fmt.Errorf("failed to look up review %s: %w", review.ReviewID, err)
	}

	if len(existing) > 0 {
		found := existing[0]
		if review.User == "" {
			review.User = found.User
		}
		if err := r.store.Update(ctx, "reviews", found.ID, review, nil); err != nil {
			return false, fmt.Errorf("failed to update review %s: %w", found.ID, err)
		}
		r.limits.AddReview()
		metrics.RecordUpsert(review.Platform.String(), "review", "update")
		return false, nil
	}

	if !r.limits.CanAddReview() {
		r.log.Log("Review limit reached, skipping review %s", review.ReviewID)
		metrics.RecordSkip(review.Platform.String(), "review", "quota")
		return false, nil
	}

	if err := r.store.Create(ctx, "reviews", review, nil); err != nil {
		return false, fmt.Errorf("failed to create review %s: %w", review.ReviewID, err)
	}
	r.limits.AddReview()
	metrics.RecordUpsert(review.Platform.String(), "review", "create")
	return true, nil
}
