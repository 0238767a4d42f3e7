package holidayapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// dateLayout формат даты в ответе API
const dateLayout = "2006-01-02"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент календаря государственных праздников (Nager.Date API)
// Ответы кэшируются по календарному году: список праздников года неизменен,
// поэтому за год выполняется ровно один сетевой запрос
type Client struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
	log         Logger

	mu    sync.RWMutex
	cache map[int]map[string]struct{} // год -> множество дат-праздников (YYYY-MM-DD)
}

// NewClient создает новый экземпляр клиента календаря праздников
func NewClient(baseURL, countryCode string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		countryCode: countryCode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:   log,
		cache: make(map[int]map[string]struct{}),
	}
}

// IsHoliday сообщает, является ли дата государственным праздником
// При недоступности API возвращает ошибку; вызывающая сторона решает,
// деградировать ли до "не праздник" (закрытие по празднику - самый слабый
// сигнал расписания и не должно блокировать расчёт слотов)
func (c *Client) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	year := date.Year()
	key := date.Format(dateLayout)

	c.mu.RLock()
	holidays, cached := c.cache[year]
	c.mu.RUnlock()

	if cached {
		_, isHoliday := holidays[key]
		return isHoliday, nil
	}

	holidays, err := c.fetchYear(ctx, year)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.cache[year] = holidays
	c.mu.Unlock()

	c.log.Info("holidayapi: cached %d holiday(s) for year=%d country=%s",
		len(holidays), year, c.countryCode)

	_, isHoliday := holidays[key]
	return isHoliday, nil
}

// fetchYear загружает список праздников на год
func (c *Client) fetchYear(ctx context.Context, year int) (map[string]struct{}, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNoContent:
		// Страна без данных - праздников нет
		return map[string]struct{}{}, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var holidays []PublicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	result := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		result[h.Date] = struct{}{}
	}

	return result, nil
}
