package values

type Config interface {
}

// ImportValues задаёт параметры одного прохода импорта.
type ImportValues struct {
	// StoreBatchLimit ограничивает число магазинов, выбираемых за проход.
	StoreBatchLimit int `yaml:"store-batch-limit"`
	// PageSize -- размер страницы при выгрузке каталога и отзывов.
	PageSize int `yaml:"page-size"`
	// ThrottleEvery -- число обработанных записей между паузами.
	ThrottleEvery int `yaml:"throttle-every"`
	// ThrottleDelayMs -- длительность одной паузы в миллисекундах.
	ThrottleDelayMs int `yaml:"throttle-delay-ms"`
}

func DefaultImportValues() ImportValues {
	return ImportValues{
		StoreBatchLimit: 10,
		PageSize:        50,
		ThrottleEvery:   50,
		ThrottleDelayMs: 500,
	}
}

// Normalize подставляет значения по умолчанию вместо нулевых.
func (v ImportValues) Normalize() ImportValues {
	def := DefaultImportValues()
	if v.StoreBatchLimit <= 0 {
		v.StoreBatchLimit = def.StoreBatchLimit
	}
	if v.PageSize <= 0 {
		v.PageSize = def.PageSize
	}
	if v.ThrottleEvery <= 0 {
		v.ThrottleEvery = def.ThrottleEvery
	}
	if v.ThrottleDelayMs <= 0 {
		v.ThrottleDelayMs = def.ThrottleDelayMs
	}
	return v
}
