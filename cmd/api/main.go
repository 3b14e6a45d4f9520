package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/krittin-p/shop-backend/internal/config"
	"github.com/krittin-p/shop-backend/internal/product"
	"github.com/krittin-p/shop-backend/internal/recommendation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app, cfg.AllowOrigins)
	app.Use(requestLogger)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureTables(db)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)
	productHandler.RegisterPublicRoutes(app)

	recRepo := recommendation.NewPostgresRepository(db)
	recService := recommendation.NewService(recRepo, cfg.TopN)
	recHandler := recommendation.NewHandler(recService)
	recHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))
	recHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// ensureTables creates the read tables when they are missing. The surrounding
// application owns the schema; this only covers fresh local databases.
func ensureTables(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS product (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			supplier_id INT NOT NULL DEFAULT 0,
			product_price numeric NOT NULL DEFAULT 0,
			product_desc TEXT,
			product_pic TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sale (
			sale_id SERIAL PRIMARY KEY,
			customer_id INT NOT NULL,
			sale_date timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sale_item (
			sale_item_id SERIAL PRIMARY KEY,
			sale_id INT NOT NULL REFERENCES sale(sale_id),
			product_id INT NOT NULL,
			quantity INT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			feedback_id SERIAL PRIMARY KEY,
			product_id INT NOT NULL,
			rating numeric NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), start)
	return c.Next()
}
