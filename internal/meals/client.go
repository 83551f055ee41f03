// Package meals talks to TheMealDB, the external recipe catalog the
// manager screen imports menu items from.
package meals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const shortInstructionsLimit = 180

type Meal struct {
	ExternalID        string   `json:"external_id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Area              string   `json:"area"`
	ShortInstructions string   `json:"short_instructions"`
	Ingredients       []string `json:"ingredients"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// mealPayload is one meal object as TheMealDB returns it: a flat map
// of string-or-null fields, ingredients numbered strIngredient1..20.
type mealPayload map[string]any

func (p mealPayload) str(key string) string {
	s, _ := p[key].(string)
	return strings.TrimSpace(s)
}

type lookupResponse struct {
	Meals []mealPayload `json:"meals"`
}

func (c *Client) Search(ctx context.Context, query string) ([]Meal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Meal{}, nil
	}

	payloads, err := c.fetch(ctx, "/api/json/v1/1/search.php?s="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	meals := make([]Meal, 0, len(payloads))
	for _, p := range payloads {
		if p.str("idMeal") == "" {
			continue
		}
		meals = append(meals, mapMeal(p))
	}
	return meals, nil
}

// Random fetches up to count random meals for the landing view.
// The remote endpoint returns one meal per call; failed calls are
// skipped rather than failing the whole batch.
func (c *Client) Random(ctx context.Context, count int) ([]Meal, error) {
	meals := make([]Meal, 0, count)
	for i := 0; i < count; i++ {
		payloads, err := c.fetch(ctx, "/api/json/v1/1/random.php")
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Msg("meals: random meal fetch failed")
			continue
		}
		if len(payloads) == 0 {
			continue
		}
		meals = append(meals, mapMeal(payloads[0]))
	}
	return meals, nil
}

// Lookup returns nil when the id is unknown to the remote API.
func (c *Client) Lookup(ctx context.Context, mealID string) (*Meal, error) {
	mealID = strings.TrimSpace(mealID)
	if mealID == "" {
		return nil, nil
	}

	payloads, err := c.fetch(ctx, "/api/json/v1/1/lookup.php?i="+url.QueryEscape(mealID))
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, nil
	}

	meal := mapMeal(payloads[0])
	return &meal, nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]mealPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("meals: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meals: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meals: unexpected status %d from %s", resp.StatusCode, path)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("meals: failed to decode response: %w", err)
	}

	return decoded.Meals, nil
}

func mapMeal(p mealPayload) Meal {
	ingredients := make([]string, 0)
	for i := 1; i <= 20; i++ {
		if ing := p.str(fmt.Sprintf("strIngredient%d", i)); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}

	return Meal{
		ExternalID:        p.str("idMeal"),
		Name:              p.str("strMeal"),
		Category:          p.str("strCategory"),
		Area:              p.str("strArea"),
		ShortInstructions: shorten(p.str("strInstructions")),
		Ingredients:       ingredients,
	}
}

func shorten(full string) string {
	runes := []rune(full)
	if len(runes) <= shortInstructionsLimit {
		return full
	}
	return string(runes[:shortInstructionsLimit]) + "..."
}
