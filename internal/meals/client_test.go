package meals_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/meals"
)

const mushroomRisotto = `{"meals":[{
	"idMeal":"52723",
	"strMeal":"Mushroom Risotto",
	"strCategory":"Vegetarian",
	"strArea":"Italian",
	"strInstructions":"%s",
	"strIngredient1":"Mushrooms",
	"strIngredient2":"Rice",
	"strIngredient3":"  Onion ",
	"strIngredient4":"",
	"strIngredient5":null
}]}`

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/lookup.php", r.URL.Path)
		assert.Equal(t, "52723", r.URL.Query().Get("i"))
		fmt.Fprintf(w, mushroomRisotto, "Heat the stock.")
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	meal, err := client.Lookup(context.Background(), "52723")
	require.NoError(t, err)
	require.NotNil(t, meal)

	assert.Equal(t, "52723", meal.ExternalID)
	assert.Equal(t, "Mushroom Risotto", meal.Name)
	assert.Equal(t, "Vegetarian", meal.Category)
	assert.Equal(t, "Heat the stock.", meal.ShortInstructions)
	assert.Equal(t, []string{"Mushrooms", "Rice", "Onion"}, meal.Ingredients)
}

func TestClient_Lookup_TruncatesLongInstructions(t *testing.T) {
	long := strings.Repeat("a", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, mushroomRisotto, long)
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	meal, err := client.Lookup(context.Background(), "52723")
	require.NoError(t, err)
	require.NotNil(t, meal)

	assert.Len(t, meal.ShortInstructions, 183)
	assert.True(t, strings.HasSuffix(meal.ShortInstructions, "..."))
}

func TestClient_Lookup_TruncatesByRunes(t *testing.T) {
	// A multi-byte rune straddling the cut must survive whole.
	long := strings.Repeat("x", 179) + "éé"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, mushroomRisotto, long)
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	meal, err := client.Lookup(context.Background(), "52723")
	require.NoError(t, err)
	require.NotNil(t, meal)

	assert.True(t, utf8.ValidString(meal.ShortInstructions))
	assert.Equal(t, 183, utf8.RuneCountInString(meal.ShortInstructions))
	assert.True(t, strings.HasSuffix(meal.ShortInstructions, "é..."))
}

func TestClient_Lookup_UnknownMeal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meals":null}`)
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	meal, err := client.Lookup(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, meal)
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/v1/1/search.php", r.URL.Path)
		assert.Equal(t, "risotto", r.URL.Query().Get("s"))
		fmt.Fprintf(w, mushroomRisotto, "Heat the stock.")
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	found, err := client.Search(context.Background(), "risotto")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mushroom Risotto", found[0].Name)
}

func TestClient_Search_BlankQuery(t *testing.T) {
	client := meals.NewClient("http://127.0.0.1:1")
	found, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestClient_Lookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := meals.NewClient(srv.URL)
	_, err := client.Lookup(context.Background(), "52723")
	assert.Error(t, err)
}
