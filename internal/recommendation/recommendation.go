package recommendation

import (
	"time"

	"github.com/krittin-p/shop-backend/internal/product"
)

const (
	// HalfLifeDays is the elapsed time after which a purchase event's
	// contribution to a product's score drops by half.
	HalfLifeDays = 30.0
	// RatingWeight blends the average rating into the blended score.
	RatingWeight = 0.2
	// DefaultTopN caps the result list when no limit is configured.
	DefaultTopN = 5
)

// PurchaseEvent is a single sale line for a product. Multiple events may
// exist for the same (customer, product) pair; they are scored separately,
// never merged.
type PurchaseEvent struct {
	CustomerID int
	ProductID  int
	Quantity   int
	OccurredAt time.Time
}

// RatingAggregate is the averaged feedback for one product. Products with no
// feedback carry an average of 0.
type RatingAggregate struct {
	ProductID   int
	AvgRating   float64
	SampleCount int
}

// Candidate groups the purchase events and rating for one product prior to
// scoring.
type Candidate struct {
	ProductID int
	Events    []PurchaseEvent
	AvgRating float64
}

// TrendingCandidate is the catalog-wide aggregate used by the fallback path.
// QuantitySum is the raw, undecayed sum of sold quantities.
type TrendingCandidate struct {
	ProductID   int
	QuantitySum int
	AvgRating   float64
}

// Entry is one ranked product in a recommendation response. It is ephemeral
// and never persisted.
type Entry struct {
	ProductID           int     `json:"productID"`
	ProductName         string  `json:"productName"`
	SupplierID          int     `json:"supplierID"`
	ProductPrice        float64 `json:"productPrice"`
	ProductImg          *string `json:"productImg,omitempty"`
	RecommendationScore float64 `json:"recommendation_score"`
	AvgRating           float64 `json:"avg_rating"`
}

// Result is the response shape of both recommendation operations.
// Total always equals len(Items).
type Result struct {
	Items []Entry `json:"items"`
	Total int     `json:"total"`
}

func entryFromProduct(p product.Product, score, avgRating float64) Entry {
	return Entry{
		ProductID:           p.ID,
		ProductName:         p.Name,
		SupplierID:          p.SupplierID,
		ProductPrice:        p.Price,
		ProductImg:          p.Pic,
		RecommendationScore: score,
		AvgRating:           avgRating,
	}
}
