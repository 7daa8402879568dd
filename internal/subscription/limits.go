package subscription

// Limits отслеживает расход квот подписки в рамках одного прогона импорта.
// Чистый счётчик в памяти, без I/O; владеет им ровно одна последовательная
// задача обработки магазина, потокобезопасность не требуется.
//
// Инвариант: current + added никогда не превышает limit; при нулевом
// лимите добавления запрещены полностью, независимо от текущего расхода.
type Limits struct {
	ProductLimit    int
	ReviewLimit     int
	CurrentProducts int
	CurrentReviews  int
	AddedProducts   int
	AddedReviews    int
}

func NewLimits(productLimit, reviewLimit, currentProducts, currentReviews int) *Limits {
	return &Limits{
		ProductLimit:    productLimit,
		ReviewLimit:     reviewLimit,
		CurrentProducts: currentProducts,
		CurrentReviews:  currentReviews,
	}
}

func (l *Limits) CanAddProduct() bool {
	if l.ProductLimit == 0 {
		return false
	}
	return l.CurrentProducts+l.AddedProducts < l.ProductLimit
}

func (l *Limits) CanAddReview() bool {
	if l.ReviewLimit == 0 {
		return false
	}
	return l.CurrentReviews+l.AddedReviews < l.ReviewLimit
}

// AddProduct учитывает один добавленный товар. Вызывается только после
// успешной записи в хранилище; при исчерпанной квоте ничего не меняет.
func (l *Limits) AddProduct() bool {
	if !l.CanAddProduct() {
		return false
	}
	l.AddedProducts++
	return true
}

func (l *Limits) AddReview() bool {
	if !l.CanAddReview() {
		return false
	}
	l.AddedReviews++
	return true
}

// UsageStats возвращает прирост за прогон для записи в журнал потребления.
func (l *Limits) UsageStats() (addedProducts, addedReviews int) {
	return l.AddedProducts, l.AddedReviews
}
