package product

import (
	"database/sql"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	listQuery = `
		SELECT product_id, product_name, supplier_id, product_price, product_desc, product_pic
		FROM product
		ORDER BY product_id
	`
	getByIDQuery = `
		SELECT product_id, product_name, supplier_id, product_price, product_desc, product_pic
		FROM product
		WHERE product_id = $1
	`
	listBySupplierQuery = `
		SELECT product_id, product_name, supplier_id, product_price, product_desc, product_pic
		FROM product
		WHERE supplier_id = $1
		ORDER BY product_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(listQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	var (
		p     Product
		desc  sql.NullString
		pic   sql.NullString
		price sql.NullFloat64
	)
	err := r.db.QueryRow(getByIDQuery, id).Scan(&p.ID, &p.Name, &p.SupplierID, &price, &desc, &pic)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if price.Valid {
		p.Price = price.Float64
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if pic.Valid {
		p.Pic = &pic.String
	}
	return p, nil
}

func (r *PostgresRepository) ListBySupplier(supplierID int) ([]Product, error) {
	rows, err := r.db.Query(listBySupplierQuery, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		var (
			p     Product
			desc  sql.NullString
			pic   sql.NullString
			price sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.SupplierID, &price, &desc, &pic); err != nil {
			return nil, err
		}
		if price.Valid {
			p.Price = price.Float64
		}
		if desc.Valid {
			p.Description = &desc.String
		}
		if pic.Valid {
			p.Pic = &pic.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
