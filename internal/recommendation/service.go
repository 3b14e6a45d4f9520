package recommendation

import (
	"time"
)

// Service runs the recommendation pipeline: read → score → rank. It holds no
// state beyond its dependencies and is safe for concurrent use.
type Service struct {
	repo Repository
	topN int
}

func NewService(repo Repository, topN int) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Service{repo: repo, topN: topN}
}

// ForCustomer ranks products for a customer from peer purchase behavior:
// customers who bought the same products vote, with recent purchases weighing
// more. Products the customer already owns are excluded. When no peer signal
// exists (unknown customer, no overlap), the catalog-wide trending ranking is
// returned instead. The evaluation instant `at` is explicit so results are
// reproducible against fixed data.
func (s *Service) ForCustomer(customerID int, at time.Time) (Result, error) {
	owned, err := s.repo.PurchasedProductIDs(customerID)
	if err != nil {
		return Result{}, err
	}

	peers, err := s.repo.PeerCustomerIDs(owned, customerID)
	if err != nil {
		return Result{}, err
	}

	candidates, err := s.repo.CandidatesByCustomers(peers, owned)
	if err != nil {
		return Result{}, err
	}

	if len(candidates) == 0 {
		return s.trending()
	}

	items := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, scored{
			ProductID: c.ProductID,
			Score:     scoreDecayed(c, at),
			AvgRating: c.AvgRating,
		})
	}
	return s.finalize(rank(items, s.topN))
}

// ForSupplier ranks the supplier's own catalog with the same decay-weighted
// scorer the peer path uses. Nothing is excluded and the trending fallback
// never applies here; an empty catalog simply yields an empty result.
func (s *Service) ForSupplier(supplierID int, at time.Time) (Result, error) {
	candidates, err := s.repo.CandidatesBySupplier(supplierID)
	if err != nil {
		return Result{}, err
	}

	items := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, scored{
			ProductID: c.ProductID,
			Score:     scoreDecayed(c, at),
			AvgRating: c.AvgRating,
		})
	}
	return s.finalize(rank(items, s.topN))
}

// trending ranks the whole catalog by raw sales volume. With zero sales in
// the system this returns an empty result, which callers must treat as "no
// data" rather than a failure.
func (s *Service) trending() (Result, error) {
	aggregates, err := s.repo.CatalogAggregates()
	if err != nil {
		return Result{}, err
	}

	items := make([]scored, 0, len(aggregates))
	for _, tc := range aggregates {
		items = append(items, scored{
			ProductID: tc.ProductID,
			Score:     scoreTrending(tc),
			AvgRating: tc.AvgRating,
		})
	}
	return s.finalize(rank(items, s.topN))
}

// finalize joins the ranked ids with their product snapshots. Products that
// vanished from the catalog between the aggregate read and the snapshot read
// are dropped from the response.
func (s *Service) finalize(ranked []scored) (Result, error) {
	ids := make([]int, 0, len(ranked))
	for _, it := range ranked {
		ids = append(ids, it.ProductID)
	}

	snapshots, err := s.repo.ProductsByIDs(ids)
	if err != nil {
		return Result{}, err
	}

	entries := make([]Entry, 0, len(ranked))
	for _, it := range ranked {
		p, ok := snapshots[it.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, entryFromProduct(p, it.Score, it.AvgRating))
	}
	return Result{Items: entries, Total: len(entries)}, nil
}
