package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"storesync_api/config/values"
	"storesync_api/internal/core/models"
	"storesync_api/internal/core/services"
	"storesync_api/internal/subscription"
	"storesync_api/metrics"
	"storesync_api/pkg/directus"
	"storesync_api/pkg/logger"
)

// Orchestrator ведёт сквозной импорт магазина: метаданные витрины ->
// страницы каталога -> отзывы (по товару или по всему магазину) ->
// статусные переходы на каждой фазе. Магазины обрабатываются строго
// последовательно; сбой одного не останавливает пакет.
type Orchestrator struct {
	store    *directus.Client
	registry *services.AdapterRegistry
	subs     *subscription.Manager
	values   values.ImportValues
	log      logger.Logger
	writer   io.Writer
}

func NewOrchestrator(store *directus.Client, registry *services.AdapterRegistry, subs *subscription.Manager, vals values.ImportValues, writer io.Writer) *Orchestrator {
	return &Orchestrator{
		store:    store,
		registry: registry,
		subs:     subs,
		values:   vals.Normalize(),
		log:      logger.NewLogger(writer, "[Orchestrator]"),
		writer:   writer,
	}
}

// RunOnce выполняет один проход: выбирает ограниченный пакет магазинов в
// начальном статусе и обрабатывает их по очереди.
func (o *Orchestrator) RunOnce(ctx context.Context) error {
	var storefronts []models.Storefront
	err := o.store.Collection("stores").
		Filter(directus.Eq("import_status", string(models.StatusProductInfoNotFetched))).
		Limit(o.values.StoreBatchLimit).
		Read(ctx, &storefronts)
	if err != nil {
		return fmt.Errorf("failed to select storefronts: %w", err)
	}
	if len(storefronts) == 0 {
		o.log.Log("No storefronts waiting for import")
		return nil
	}

	o.log.Log("Selected %d storefront(s) for import", len(storefronts))
	for _, sf := range storefronts {
		if err := o.processStorefront(ctx, sf); err != nil {
			// изоляция сбоя: магазин уже помечен терминальным статусом,
			// пакет продолжается
			o.log.Log("Storefront %s (%s) failed: %v", sf.ID, sf.Platform, err)
		}
	}
	return nil
}

func (o *Orchestrator) processStorefront(ctx context.Context, sf models.Storefront) error {
	o.log.Log("Processing storefront %s (%s, platform=%s)", sf.ID, sf.Name, sf.Platform)

	adapter, err := o.registry.Get(sf.Platform)
	if err != nil {
		o.finish(ctx, &sf, models.StatusError, nil)
		return err
	}
	if !sf.ConnectInfo.Valid() {
		o.finish(ctx, &sf, models.StatusAPIInfoMissing, nil)
		return fmt.Errorf("storefront %s has no usable api connect info", sf.ID)
	}
	if sf.User == "" {
		o.finish(ctx, &sf, models.StatusUserIDMissing, nil)
		return fmt.Errorf("storefront %s has no owning user", sf.ID)
	}

	limits, err := o.subs.InitializeLimits(ctx, sf.User)
	if err != nil {
		o.finish(ctx, &sf, models.StatusSubscriptionError, nil)
		return fmt.Errorf("failed to initialize subscription limits: %w", err)
	}

	reconciler := NewReconciler(o.store, limits, o.writer)
	pacer := newPacer(o.values)

	// метаданные витрины косметические, их сбой прогон не останавливает
	o.refreshStoreMetadata(ctx, adapter, &sf)

	// статус пишется до начала рискованной фазы: упавший прогон оставит
	// отметку, по которой следующий проход поймёт, докуда дошли
	o.setImportStatus(ctx, &sf, models.StatusFetchingStoreReviews, nil)

	fetchedProducts, fetchedReviews, err := o.runProductPhase(ctx, adapter, reconciler, &sf, pacer)
	if err != nil {
		status := models.StatusErrorFetchingProductInfo
		if _, ok := err.(*reviewPhaseError); ok {
			status = models.StatusErrorFetchingReviews
		}
		o.finish(ctx, &sf, status, nil)
		o.flushUsage(ctx, sf.User, limits)
		return err
	}
	o.setImportStatus(ctx, &sf, models.StatusProductInfoFetched, nil)

	terminal := models.StatusReviewsFetched
	if adapter.ReviewScope() == services.ReviewScopeStore {
		storeReviews, err := o.runStoreReviewPhase(ctx, adapter, reconciler, &sf, pacer)
		if err != nil {
			o.finish(ctx, &sf, models.StatusErrorFetchingStoreReviews, nil)
			o.flushUsage(ctx, sf.User, limits)
			return err
		}
		fetchedReviews += storeReviews
		terminal = models.StatusStoreReviewsFetched
	}

	o.finish(ctx, &sf, terminal, map[string]interface{}{
		"fetched_product_count": fetchedProducts,
		"fetched_review_count":  fetchedReviews,
	})
	o.flushUsage(ctx, sf.User, limits)

	addedProducts, addedReviews := limits.UsageStats()
	o.log.Log("Storefront %s done: saw %d products, %d reviews; added %d products, %d reviews",
		sf.ID, fetchedProducts, fetchedReviews, addedProducts, addedReviews)
	return nil
}

// runProductPhase постранично выгружает каталог и сверяет каждую карточку.
// Для площадок с пообъектными отзывами фан-аут выполняется сразу после
// карточки (depth-first). Возвращает число увиденных товаров и отзывов.
func (o *Orchestrator) runProductPhase(ctx context.Context, adapter services.PlatformAdapter, reconciler *Reconciler, sf *models.Storefront, pacer *pacer) (int, int, error) {
	fetchedProducts := 0
	fetchedReviews := 0
	depthFirst := adapter.ReviewScope() == services.ReviewScopeProduct

	for page := 0; ; page++ {
		if err := pacer.WaitPage(ctx); err != nil {
			return fetchedProducts, fetchedReviews, err
		}

		productPage, err := adapter.FetchProducts(ctx, *sf.ConnectInfo, page)
		if err != nil {
			return fetchedProducts, fetchedReviews, fmt.Errorf("product page %d: %w", page, err)
		}
		metrics.RecordPageFetch(sf.Platform.String(), "products")

		for _, product := range productPage.Products {
			fetchedProducts++
			if err := pacer.Tick(ctx); err != nil {
				return fetchedProducts, fetchedReviews, err
			}

			product.Store = sf.ID
			product.User = sf.User

			storedID, _, err := reconciler.UpsertProduct(ctx, product)
			if err != nil {
				// одиночный сбой записи не роняет пачку
				o.log.Log("Skipping product sku=%s: %v", product.SKU, err)
				metrics.RecordSkip(sf.Platform.String(), "product", "error")
				continue
			}
			if storedID == "" {
				// квота: карточки дальше не добавятся, но отзывы уже
				// существующих карточек ниже по ленте ещё возможны
				continue
			}

			if depthFirst {
				seen, err := o.runProductReviews(ctx, adapter, reconciler, sf, product.ProductID, storedID, pacer)
				fetchedReviews += seen
				if err != nil {
					return fetchedProducts, fetchedReviews, &reviewPhaseError{err: err}
				}
			}
		}

		if !productPage.HasMore {
			break
		}
	}
	return fetchedProducts, fetchedReviews, nil
}

// runProductReviews выгружает отзывы одного товара (depth-first).
func (o *Orchestrator) runProductReviews(ctx context.Context, adapter services.PlatformAdapter, reconciler *Reconciler, sf *models.Storefront, externalProductID, storedProductID string, pacer *pacer) (int, error) {
	seen := 0
	for page := 0; ; page++ {
		if err := pacer.WaitPage(ctx); err != nil {
			return seen, err
		}

		reviewPage, err := adapter.FetchProductReviews(ctx, *sf.ConnectInfo, externalProductID, page)
		if err != nil {
			return seen, fmt.Errorf("reviews of product %s, page %d: %w", externalProductID, page, err)
		}
		metrics.RecordPageFetch(sf.Platform.String(), "reviews")

		for _, review := range reviewPage.Reviews {
			seen++
			if err := pacer.Tick(ctx); err != nil {
				return seen, err
			}

			review.Product = storedProductID
			review.Store = sf.ID
			review.User = sf.User

			if _, err := reconciler.UpsertReview(ctx, review); err != nil {
				o.log.Log("Skipping review %s: %v", review.ReviewID, err)
				metrics.RecordSkip(sf.Platform.String(), "review", "error")
			}
		}

		if !reviewPage.HasMore {
			break
		}
	}
	return seen, nil
}

// runStoreReviewPhase обрабатывает площадки, отдающие отзывы одной выгрузкой
// на весь магазин (breadth-first): отзывы сопоставляются с уже сохранённым
// каталогом через таблицу внешних id.
func (o *Orchestrator) runStoreReviewPhase(ctx context.Context, adapter services.PlatformAdapter, reconciler *Reconciler, sf *models.Storefront, pacer *pacer) (int, error) {
	var storedProducts []models.Product
	err := o.store.Collection("products").
		Filter(directus.Eq("store", sf.ID)).
		Read(ctx, &storedProducts)
	if err != nil {
		return 0, fmt.Errorf("failed to read stored products of store %s: %w", sf.ID, err)
	}
	productByExternalID := make(map[string]string, len(storedProducts))
	for _, p := range storedProducts {
		productByExternalID[p.ProductID] = p.ID
	}

	seen := 0
	for page := 0; ; page++ {
		if err := pacer.WaitPage(ctx); err != nil {
			return seen, err
		}

		reviewPage, err := adapter.FetchStoreReviews(ctx, *sf.ConnectInfo, page)
		if err != nil {
			return seen, fmt.Errorf("store reviews page %d: %w", page, err)
		}
		metrics.RecordPageFetch(sf.Platform.String(), "reviews")

		for _, review := range reviewPage.Reviews {
			seen++
			if err := pacer.Tick(ctx); err != nil {
				return seen, err
			}

			review.Product = productByExternalID[review.ExternalProductID]
			review.Store = sf.ID
			review.User = sf.User

			if _, err := reconciler.UpsertReview(ctx, review); err != nil {
				o.log.Log("Skipping review %s: %v", review.ReviewID, err)
				metrics.RecordSkip(sf.Platform.String(), "review", "error")
			}
		}

		if !reviewPage.HasMore {
			break
		}
	}
	return seen, nil
}

func (o *Orchestrator) refreshStoreMetadata(ctx context.Context, adapter services.PlatformAdapter, sf *models.Storefront) {
	details, err := adapter.ParseStoreMetadata(ctx, *sf.ConnectInfo)
	if err != nil {
		o.log.Log("Could not refresh metadata of storefront %s: %v", sf.ID, err)
		return
	}

	metadata := sf.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	if details.Name != "" {
		metadata["store_name"] = details.Name
	}
	if details.Rating > 0 {
		metadata["rating"] = details.Rating
	}
	if details.Location != "" {
		metadata["location"] = details.Location
	}
	sf.Metadata = metadata

	patch := map[string]interface{}{"metadata": metadata}
	if err := o.store.Update(ctx, "stores", sf.ID, patch, nil); err != nil {
		o.log.Log("Could not persist metadata of storefront %s: %v", sf.ID, err)
	}
}

// setImportStatus пишет статусный переход в хранилище. Сбой записи статуса
// логируется и не прерывает прогон: переходы не атомарны с работой,
// которую они обрамляют.
func (o *Orchestrator) setImportStatus(ctx context.Context, sf *models.Storefront, status models.ImportStatus, extra map[string]interface{}) {
	patch := map[string]interface{}{"import_status": string(status)}
	for k, v := range extra {
		patch[k] = v
	}
	if err := o.store.Update(ctx, "stores", sf.ID, patch, nil); err != nil {
		o.log.Log("Could not mark storefront %s as %s: %v", sf.ID, status, err)
		return
	}
	sf.ImportStatus = status
}

func (o *Orchestrator) finish(ctx context.Context, sf *models.Storefront, status models.ImportStatus, extra map[string]interface{}) {
	o.setImportStatus(ctx, sf, status, extra)
	metrics.RecordStorefront(sf.Platform.String(), status.String())
}

func (o *Orchestrator) flushUsage(ctx context.Context, userID string, limits *subscription.Limits) {
	if err := o.subs.FlushUsage(ctx, userID, limits); err != nil {
		o.log.Log("Could not flush subscription usage of user %s: %v", userID, err)
	}
}

// reviewPhaseError помечает сбой выгрузки отзывов внутри каталожной фазы,
// чтобы магазин получил статус ошибки именно по отзывам.
type reviewPhaseError struct {
	err error
}

func (e *reviewPhaseError) Error() string { return e.err.Error() }
func (e *reviewPhaseError) Unwrap() error { return e.err }

// pacer -- кооперативная пауза между запросами к площадке: фиксированный
// интервал после каждых N обработанных записей и перед каждой страницей,
// без адаптивного backoff.
type pacer struct {
	limiter *rate.Limiter
	every   int
	seen    int
}

func newPacer(v values.ImportValues) *pacer {
	interval := time.Duration(v.ThrottleDelayMs) * time.Millisecond
	return &pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		every:   v.ThrottleEvery,
	}
}

func (p *pacer) WaitPage(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

func (p *pacer) Tick(ctx context.Context) error {
	p.seen++
	if p.every <= 0 || p.seen%p.every != 0 {
		return nil
	}
	return p.limiter.Wait(ctx)
}
