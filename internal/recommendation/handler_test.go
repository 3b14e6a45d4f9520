package recommendation

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	events := []PurchaseEvent{
		{CustomerID: 1, ProductID: 1, Quantity: 1, OccurredAt: daysAgo(5)},
		{CustomerID: 2, ProductID: 1, Quantity: 1, OccurredAt: daysAgo(4)},
		{CustomerID: 2, ProductID: 2, Quantity: 4, OccurredAt: daysAgo(10)},
	}
	ratings := []RatingAggregate{{ProductID: 2, AvgRating: 4.0, SampleCount: 3}}
	repo := NewInMemoryRepository(seedProducts(), events, ratings)
	handler := NewHandler(NewService(repo, 5))

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	return app
}

func decodeResult(t *testing.T, body io.Reader) Result {
	t.Helper()
	var result Result
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

func TestGetCustomerRecommendations(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/customers/1/recommendations?at="+at.Format(time.RFC3339), nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	result := decodeResult(t, res.Body)
	if result.Total != len(result.Items) {
		t.Errorf("total %d != len(items) %d", result.Total, len(result.Items))
	}
	if len(result.Items) != 1 || result.Items[0].ProductID != 2 {
		t.Fatalf("unexpected items %+v", result.Items)
	}
	if result.Items[0].RecommendationScore <= 0 {
		t.Errorf("expected positive score, got %v", result.Items[0].RecommendationScore)
	}
}

func TestGetCustomerRecommendations_BadID(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/customers/abc/recommendations", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", res.StatusCode)
	}
}

func TestGetCustomerRecommendations_MalformedAtIsRejected(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/customers/1/recommendations?at=yesterday", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed at, got %d", res.StatusCode)
	}

	// missing at still defaults to the current time
	req2 := httptest.NewRequest("GET", "/api/v1/customers/1/recommendations", nil)
	res2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res2.StatusCode != 200 {
		t.Fatalf("expected 200 without at, got %d", res2.StatusCode)
	}
}

func TestGetSupplierRecommendations_MalformedAtIsRejected(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/suppliers/1/recommendations?at=2025-13-99", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed at, got %d", res.StatusCode)
	}
}

func TestGetCustomerRecommendations_UnknownIDReturnsTrendingNot404(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/customers/999/recommendations?at="+at.Format(time.RFC3339), nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	result := decodeResult(t, res.Body)
	if len(result.Items) == 0 {
		t.Fatalf("expected trending fallback items for unknown customer")
	}
}

func TestGetSupplierRecommendations(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/suppliers/1/recommendations?at="+at.Format(time.RFC3339), nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	result := decodeResult(t, res.Body)
	// supplier 1 catalog is products 1 and 2
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	for _, it := range result.Items {
		if it.SupplierID != 1 {
			t.Errorf("foreign product %d in supplier ranking", it.ProductID)
		}
	}
}

func TestGetMyRecommendations_JWT(t *testing.T) {
	secret := "test-secret"
	events := []PurchaseEvent{
		{CustomerID: 1, ProductID: 1, Quantity: 1, OccurredAt: daysAgo(5)},
		{CustomerID: 2, ProductID: 1, Quantity: 1, OccurredAt: daysAgo(4)},
		{CustomerID: 2, ProductID: 2, Quantity: 4, OccurredAt: daysAgo(10)},
	}
	repo := NewInMemoryRepository(seedProducts(), events, nil)
	handler := NewHandler(NewService(repo, 5))

	app := fiber.New()
	app.Use(jwtware.New(jwtware.Config{SigningKey: []byte(secret)}))
	handler.RegisterProtectedRoutes(app)

	// without a token the middleware must reject the request
	req := httptest.NewRequest("GET", "/api/v1/recommendations/me", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode == 200 {
		t.Fatalf("expected unauthorized without token, got 200")
	}

	claims := jwt.MapClaims{"customer_id": 1}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/recommendations/me", nil)
	req2.Header.Set("Authorization", "Bearer "+signed)
	res2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res2.StatusCode != 200 {
		t.Fatalf("expected 200 with token, got %d", res2.StatusCode)
	}

	result := decodeResult(t, res2.Body)
	for _, it := range result.Items {
		if it.ProductID == 1 {
			t.Errorf("own purchase leaked into /me recommendations")
		}
	}
}
