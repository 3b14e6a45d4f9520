package recommendation

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/krittin-p/shop-backend/internal/product"
)

// PostgresRepository implements Repository over the sales schema
// (sale, sale_item, feedback, product). Scoring never happens in SQL;
// these queries only fetch the raw rows the in-process scorers consume.
type PostgresRepository struct {
	db *sql.DB
}

const (
	purchasedProductIDsQuery = `
		SELECT DISTINCT si.product_id
		FROM sale s
		JOIN sale_item si ON si.sale_id = s.sale_id
		WHERE s.customer_id = $1
	`
	peerCustomerIDsQuery = `
		SELECT DISTINCT s.customer_id
		FROM sale s
		JOIN sale_item si ON si.sale_id = s.sale_id
		WHERE si.product_id = ANY($1::int[])
		  AND s.customer_id <> $2
	`
	candidatesByCustomersQuery = `
		SELECT si.product_id, s.customer_id, si.quantity, s.sale_date, COALESCE(f.avg_rating, 0)
		FROM sale s
		JOIN sale_item si ON si.sale_id = s.sale_id
		LEFT JOIN (
			SELECT product_id, AVG(rating) AS avg_rating
			FROM feedback
			GROUP BY product_id
		) f ON f.product_id = si.product_id
		WHERE s.customer_id = ANY($1::int[])
		  AND NOT (si.product_id = ANY($2::int[]))
		ORDER BY si.product_id, s.sale_date
	`
	candidatesBySupplierQuery = `
		SELECT p.product_id, COALESCE(s.customer_id, 0), si.quantity, s.sale_date, COALESCE(f.avg_rating, 0)
		FROM product p
		LEFT JOIN sale_item si ON si.product_id = p.product_id
		LEFT JOIN sale s ON s.sale_id = si.sale_id
		LEFT JOIN (
			SELECT product_id, AVG(rating) AS avg_rating
			FROM feedback
			GROUP BY product_id
		) f ON f.product_id = p.product_id
		WHERE p.supplier_id = $1
		ORDER BY p.product_id, s.sale_date
	`
	catalogAggregatesQuery = `
		SELECT si.product_id, SUM(si.quantity), COALESCE(f.avg_rating, 0)
		FROM sale_item si
		LEFT JOIN (
			SELECT product_id, AVG(rating) AS avg_rating
			FROM feedback
			GROUP BY product_id
		) f ON f.product_id = si.product_id
		GROUP BY si.product_id, f.avg_rating
	`
	productsByIDsQuery = `
		SELECT product_id, product_name, supplier_id, product_price, product_pic
		FROM product
		WHERE product_id = ANY($1::int[])
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) PurchasedProductIDs(customerID int) ([]int, error) {
	rows, err := r.db.Query(purchasedProductIDsQuery, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *PostgresRepository) PeerCustomerIDs(productIDs []int, excludeCustomerID int) ([]int, error) {
	if len(productIDs) == 0 {
		return []int{}, nil
	}

	rows, err := r.db.Query(peerCustomerIDsQuery, pq.Array(productIDs), excludeCustomerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *PostgresRepository) CandidatesByCustomers(customerIDs []int, excludeProductIDs []int) ([]Candidate, error) {
	if len(customerIDs) == 0 {
		return []Candidate{}, nil
	}
	if excludeProductIDs == nil {
		excludeProductIDs = []int{}
	}

	rows, err := r.db.Query(candidatesByCustomersQuery, pq.Array(customerIDs), pq.Array(excludeProductIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := map[int]*Candidate{}
	order := make([]int, 0)
	for rows.Next() {
		var (
			e      PurchaseEvent
			rating float64
		)
		if err := rows.Scan(&e.ProductID, &e.CustomerID, &e.Quantity, &e.OccurredAt, &rating); err != nil {
			return nil, err
		}
		g, ok := groups[e.ProductID]
		if !ok {
			g = &Candidate{ProductID: e.ProductID, AvgRating: rating}
			groups[e.ProductID] = g
			order = append(order, e.ProductID)
		}
		g.Events = append(g.Events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}

func (r *PostgresRepository) CandidatesBySupplier(supplierID int) ([]Candidate, error) {
	rows, err := r.db.Query(candidatesBySupplierQuery, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := map[int]*Candidate{}
	order := make([]int, 0)
	for rows.Next() {
		var (
			productID  int
			customerID sql.NullInt64
			quantity   sql.NullInt64
			saleDate   sql.NullTime
			rating     float64
		)
		if err := rows.Scan(&productID, &customerID, &quantity, &saleDate, &rating); err != nil {
			return nil, err
		}
		g, ok := groups[productID]
		if !ok {
			g = &Candidate{ProductID: productID, AvgRating: rating}
			groups[productID] = g
			order = append(order, productID)
		}
		// unsold products come back with NULL sale columns; they stay in the
		// candidate set with zero events
		if quantity.Valid && saleDate.Valid {
			g.Events = append(g.Events, PurchaseEvent{
				CustomerID: int(customerID.Int64),
				ProductID:  productID,
				Quantity:   int(quantity.Int64),
				OccurredAt: saleDate.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}

func (r *PostgresRepository) CatalogAggregates() ([]TrendingCandidate, error) {
	rows, err := r.db.Query(catalogAggregatesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TrendingCandidate, 0)
	for rows.Next() {
		var tc TrendingCandidate
		if err := rows.Scan(&tc.ProductID, &tc.QuantitySum, &tc.AvgRating); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ProductsByIDs(ids []int) (map[int]product.Product, error) {
	if len(ids) == 0 {
		return map[int]product.Product{}, nil
	}

	rows, err := r.db.Query(productsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]product.Product, len(ids))
	for rows.Next() {
		var (
			p     product.Product
			price sql.NullFloat64
			pic   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.SupplierID, &price, &pic); err != nil {
			return nil, err
		}
		if price.Valid {
			p.Price = price.Float64
		}
		if pic.Valid {
			p.Pic = &pic.String
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func scanIDs(rows *sql.Rows) ([]int, error) {
	out := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
