package product

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func ptrString(s string) *string { return &s }

func newTestApp() *fiber.App {
	seed := []Product{
		{ID: 1, Name: "Dry Food 2kg", SupplierID: 1, Price: 350, Pic: ptrString("/img/food.jpg")},
		{ID: 2, Name: "Litter Box", SupplierID: 1, Price: 590},
		{ID: 3, Name: "Scratching Post", SupplierID: 2, Price: 790},
	}
	h := NewHandler(NewService(NewInMemoryRepository(seed)))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	return app
}

func TestGetProduct(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/v1/product/1", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Dry Food 2kg") {
		t.Fatalf("unexpected body: %s", body)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/product/99", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("GET", "/api/v1/product/abc", nil)
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", res3.StatusCode)
	}
}

func TestGetSupplierProducts(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/v1/supplier/1/products", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	str := string(body)
	if !strings.Contains(str, "Litter Box") || !strings.Contains(str, "Dry Food 2kg") {
		t.Fatalf("missing supplier products: %s", str)
	}
	if strings.Contains(str, "Scratching Post") {
		t.Fatalf("foreign supplier product leaked into response: %s", str)
	}
}
