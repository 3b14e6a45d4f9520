package recommendation

import (
	"sync"

	"github.com/krittin-p/shop-backend/internal/product"
)

// Repository is the narrow read surface the recommendation pipeline needs.
// All methods are snapshot reads; none mutate anything. Unknown ids yield
// empty results, not errors.
type Repository interface {
	// PurchasedProductIDs returns the distinct products a customer has ever
	// purchased.
	PurchasedProductIDs(customerID int) ([]int, error)
	// PeerCustomerIDs returns the distinct customers, excluding
	// excludeCustomerID, who purchased at least one of the given products.
	// An empty product set yields an empty result without a query.
	PeerCustomerIDs(productIDs []int, excludeCustomerID int) ([]int, error)
	// CandidatesByCustomers returns per-product purchase events made by the
	// given customers, skipping products in excludeProductIDs, joined with
	// each product's average rating.
	CandidatesByCustomers(customerIDs []int, excludeProductIDs []int) ([]Candidate, error)
	// CandidatesBySupplier returns a candidate for every product in the
	// supplier's catalog, including products with no sales yet.
	CandidatesBySupplier(supplierID int) ([]Candidate, error)
	// CatalogAggregates returns the raw quantity sum and average rating for
	// every product with at least one sale, across the whole catalog.
	CatalogAggregates() ([]TrendingCandidate, error)
	// ProductsByIDs returns snapshots for the given product ids, keyed by id.
	ProductsByIDs(ids []int) (map[int]product.Product, error)
}

// InMemoryRepository serves tests and local scenarios from seeded slices.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []product.Product
	events   []PurchaseEvent
	ratings  map[int]RatingAggregate
}

func NewInMemoryRepository(products []product.Product, events []PurchaseEvent, ratings []RatingAggregate) *InMemoryRepository {
	r := &InMemoryRepository{
		products: append([]product.Product(nil), products...),
		events:   append([]PurchaseEvent(nil), events...),
		ratings:  make(map[int]RatingAggregate, len(ratings)),
	}
	for _, ra := range ratings {
		r.ratings[ra.ProductID] = ra
	}
	return r
}

func (r *InMemoryRepository) PurchasedProductIDs(customerID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[int]bool{}
	out := make([]int, 0)
	for _, e := range r.events {
		if e.CustomerID == customerID && !seen[e.ProductID] {
			seen[e.ProductID] = true
			out = append(out, e.ProductID)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) PeerCustomerIDs(productIDs []int, excludeCustomerID int) ([]int, error) {
	if len(productIDs) == 0 {
		return []int{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := map[int]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}

	seen := map[int]bool{}
	out := make([]int, 0)
	for _, e := range r.events {
		if e.CustomerID == excludeCustomerID || !wanted[e.ProductID] || seen[e.CustomerID] {
			continue
		}
		seen[e.CustomerID] = true
		out = append(out, e.CustomerID)
	}
	return out, nil
}

func (r *InMemoryRepository) CandidatesByCustomers(customerIDs []int, excludeProductIDs []int) ([]Candidate, error) {
	if len(customerIDs) == 0 {
		return []Candidate{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	peers := map[int]bool{}
	for _, id := range customerIDs {
		peers[id] = true
	}
	excluded := map[int]bool{}
	for _, id := range excludeProductIDs {
		excluded[id] = true
	}

	groups := map[int]*Candidate{}
	order := make([]int, 0)
	for _, e := range r.events {
		if !peers[e.CustomerID] || excluded[e.ProductID] {
			continue
		}
		g, ok := groups[e.ProductID]
		if !ok {
			g = &Candidate{ProductID: e.ProductID, AvgRating: r.ratings[e.ProductID].AvgRating}
			groups[e.ProductID] = g
			order = append(order, e.ProductID)
		}
		g.Events = append(g.Events, e)
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}

func (r *InMemoryRepository) CandidatesBySupplier(supplierID int) ([]Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Candidate, 0)
	for _, p := range r.products {
		if p.SupplierID != supplierID {
			continue
		}
		c := Candidate{ProductID: p.ID, AvgRating: r.ratings[p.ID].AvgRating}
		for _, e := range r.events {
			if e.ProductID == p.ID {
				c.Events = append(c.Events, e)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *InMemoryRepository) CatalogAggregates() ([]TrendingCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := map[int]int{}
	order := make([]int, 0)
	for _, e := range r.events {
		if _, ok := sums[e.ProductID]; !ok {
			order = append(order, e.ProductID)
		}
		sums[e.ProductID] += e.Quantity
	}

	out := make([]TrendingCandidate, 0, len(order))
	for _, id := range order {
		out = append(out, TrendingCandidate{
			ProductID:   id,
			QuantitySum: sums[id],
			AvgRating:   r.ratings[id].AvgRating,
		})
	}
	return out, nil
}

func (r *InMemoryRepository) ProductsByIDs(ids []int) (map[int]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}

	out := make(map[int]product.Product, len(ids))
	for _, p := range r.products {
		if wanted[p.ID] {
			out[p.ID] = p
		}
	}
	return out, nil
}
