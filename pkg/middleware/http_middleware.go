package middleware

import (
	"net/http"
	"time"

	"storesync_api/metrics"
)

// metricsTransport оборачивает http.RoundTripper для сбора метрик исходящих
// запросов к API площадок. Сервис не принимает входящий трафик, поэтому
// инструментируется клиентская сторона.
type metricsTransport struct {
	next     http.RoundTripper
	platform string
}

func NewMetricsTransport(platform string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &metricsTransport{next: next, platform: platform}
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	status := 0 // транспортная ошибка, ответа нет
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.RecordPlatformRequest(t.platform, status, duration)

	return resp, err
}
