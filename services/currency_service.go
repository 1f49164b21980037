package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/payments"
)

type ExchangeRateResponse struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// RateCache holds USD-based conversion rates and refreshes them once the TTL passes.
type RateCache struct {
	client  *http.Client
	baseURL string
	apiKey  string
	ttl     time.Duration
	log     logger.Logger

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
	now       func() time.Time
}

func NewRateCache(baseURL, apiKey string, ttl time.Duration, log logger.Logger) *RateCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RateCache{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

func (c *RateCache) Rates(ctx context.Context) (map[string]float64, error) {
	c.mu.RLock()
	if c.rates != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		rates := c.rates
		c.mu.RUnlock()
		return rates, nil
	}
	c.mu.RUnlock()

	if c.apiKey == "" {
		return nil, fmt.Errorf("exchange rate API key not configured")
	}

	c.log.Info("Fetching fresh exchange rates")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/latest/USD", c.baseURL, c.apiKey), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency API returned status %d", resp.StatusCode)
	}

	var data ExchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Result != "success" {
		return nil, fmt.Errorf("currency API returned an error")
	}

	c.mu.Lock()
	c.rates = data.ConversionRates
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return data.ConversionRates, nil
}

// Convert moves an amount between two currencies through the USD base.
func (c *RateCache) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	rates, err := c.Rates(ctx)
	if err != nil {
		return 0, err
	}
	fromRate, ok := rates[from]
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("%s exchange rate not found", from)
	}
	toRate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("%s exchange rate not found", to)
	}
	return amount / fromRate * toRate, nil
}

// Converter is satisfied by RateCache.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

type CommissionReport struct {
	Currency    string            `json:"currency"`
	Total       float64           `json:"total"`
	ByCurrency  []CommissionTotal `json:"by_currency"`
	Unconverted []string          `json:"unconverted,omitempty"`
}

// BuildCommissionReport converts per-currency commission totals into one reporting
// currency. Currencies without a rate are listed as unconverted and left out of Total.
func BuildCommissionReport(ctx context.Context, totals []CommissionTotal, currency string, conv Converter) CommissionReport {
	report := CommissionReport{Currency: strings.ToUpper(currency), ByCurrency: totals}
	if report.ByCurrency == nil {
		report.ByCurrency = []CommissionTotal{}
	}
	var sum float64
	for _, t := range totals {
		converted, err := conv.Convert(ctx, t.PlatformCommission, t.Currency, report.Currency)
		if err != nil {
			report.Unconverted = append(report.Unconverted, t.Currency)
			continue
		}
		sum += converted
	}
	report.Total = payments.Round2(sum)
	return report
}
