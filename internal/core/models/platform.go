package models

// PlatformType определяет внешнюю площадку, с которой импортируется магазин.
type PlatformType string

const (
	PlatformTrendyol    PlatformType = "trendyol"
	PlatformHepsiburada PlatformType = "hepsiburada"
)

func (p PlatformType) String() string {
	return string(p)
}

// ImportStatus -- машина состояний импорта магазина. Статус пишется в
// хранилище до начала рискованной фазы и ещё раз после её завершения,
// поэтому упавший прогон оставляет точную отметку "докуда дошли".
type ImportStatus string

const (
	// начальное состояние, магазин ждёт импорта
	StatusProductInfoNotFetched ImportStatus = "product_info_not_fetched"
	// прогон начался, идёт выгрузка
	StatusFetchingStoreReviews ImportStatus = "fetching_store_reviews"
	// каталог выгружен
	StatusProductInfoFetched ImportStatus = "product_info_fetched"
	// терминальные успешные состояния
	StatusReviewsFetched      ImportStatus = "reviews_fetched"
	StatusStoreReviewsFetched ImportStatus = "store_reviews_fetched"
	// терминальные состояния ошибок, по причинам
	StatusError                     ImportStatus = "error"
	StatusErrorFetchingProductInfo  ImportStatus = "error_while_fetching_product_info"
	StatusErrorFetchingReviews      ImportStatus = "error_while_fetching_reviews"
	StatusErrorFetchingStoreReviews ImportStatus = "error_while_fetching_store_reviews"
	StatusAPIInfoMissing            ImportStatus = "api_info_missing"
	StatusSubscriptionError         ImportStatus = "subscription_error"
	StatusUserIDMissing             ImportStatus = "user_id_missing"
)

func (s ImportStatus) String() string {
	return string(s)
}
