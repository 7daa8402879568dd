package services

import (
	"net/http"
)

type AuthEngine interface {
	GetApiKey() string
	SetApiKey(request *http.Request)
}

// BasicTokenAuth подписывает запросы к API площадки: Basic-токен продавца
// плюс обязательный для площадки User-Agent.
type BasicTokenAuth struct {
	token     string
	userAgent string
}

func (b *BasicTokenAuth) GetApiKey() string {
	return b.token
}

func (b *BasicTokenAuth) SetApiKey(request *http.Request) {
	request.Header.Set("Authorization", "Basic "+b.token)
	if b.userAgent != "" {
		request.Header.Set("User-Agent", b.userAgent)
	}
}

func NewBasicTokenAuth(token, userAgent string) *BasicTokenAuth {
	if token == "" {
		return nil
	}
	return &BasicTokenAuth{token: token, userAgent: userAgent}
}
