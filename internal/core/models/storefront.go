package models

// Storefront представляет один внешний аккаунт продавца, находящийся под
// импортом. Запись создаётся вне этого сервиса; здесь мутируется только
// import_status и метаданные.
type Storefront struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	User         string                 `json:"user"`
	Platform     PlatformType           `json:"platform"`
	ConnectInfo  *ConnectInfo           `json:"api_connect_info"`
	ImportStatus ImportStatus           `json:"import_status"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// ConnectInfo -- платформенные реквизиты подключения к API продавца.
type ConnectInfo struct {
	StoreID  string `json:"store_id"`
	TokenKey string `json:"token_key"`
}

// Valid проверяет, что реквизитов достаточно для обращения к площадке.
func (c *ConnectInfo) Valid() bool {
	return c != nil && c.StoreID != "" && c.TokenKey != ""
}
