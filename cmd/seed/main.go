// Command seed loads demo users and a motorcycle catalog into DynamoDB.
package main

import (
	"context"
	"log"
	"time"

	"motostore/internal/adapter/persistence/repository"
	"motostore/internal/config"
	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/database"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
)

// seedNamespace keeps generated ids stable across runs.
var seedNamespace = uuid.MustParse("6f1c1c5e-3a0d-4c8e-9a59-2d7f5b8f0a11")

type seedVariant struct {
	color string
	sku   string
	stock int
}

type seedProduct struct {
	name     string
	slug     string
	brand    string
	price    string
	variants []seedVariant
}

var users = []entities.User{
	{Email: "admin@demo.com", FirstName: "Admin", LastName: "Sistema", Phone: "+51999888777"},
	{Email: "customer@demo.com", FirstName: "Juan", LastName: "Pérez", Phone: "+51987654321"},
}

var catalog = []seedProduct{
	{name: "Honda PCX 160", slug: "honda-pcx-160", brand: "Honda", price: "12500.00", variants: []seedVariant{
		{"Rojo", "PCX160-RED-001", 15}, {"Azul", "PCX160-BLU-001", 12}, {"Negro", "PCX160-BLK-001", 20},
	}},
	{name: "Yamaha R15 V4", slug: "yamaha-r15-v4", brand: "Yamaha", price: "15800.00", variants: []seedVariant{
		{"Azul Racing", "R15V4-BLU-001", 10}, {"Negro Mate", "R15V4-BLK-001", 8}, {"Rojo Racing", "R15V4-RED-001", 5},
	}},
	{name: "Bajaj Pulsar NS200", slug: "bajaj-pulsar-ns200", brand: "Bajaj", price: "9500.00", variants: []seedVariant{
		{"Rojo", "NS200-RED-001", 18}, {"Negro", "NS200-BLK-001", 22}, {"Azul", "NS200-BLU-001", 14},
	}},
	{name: "Suzuki Gixxer SF 250", slug: "suzuki-gixxer-sf-250", brand: "Suzuki", price: "14200.00", variants: []seedVariant{
		{"Azul MotoGP", "GIXXER250-BLU-001", 9}, {"Negro Brillante", "GIXXER250-BLK-001", 12}, {"Rojo", "GIXXER250-RED-001", 7},
	}},
	{name: "Suzuki V-Strom 650 XT", slug: "suzuki-v-strom-650-xt", brand: "Suzuki", price: "28500.00", variants: []seedVariant{
		{"Amarillo Campeón", "VSTROM650-YLW-001", 4}, {"Negro", "VSTROM650-BLK-001", 5}, {"Rojo", "VSTROM650-RED-001", 3},
	}},
}

func stableID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ddb := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
	tables := database.TablesFromConfig(cfg.DynamoDB)
	if err := database.EnsureTables(ctx, ddb, tables); err != nil {
		log.Fatalf("[seed] ensure tables failed: %v", err)
	}

	userRepo := repository.NewUserDynamoRepository(ddb, tables)
	variantRepo := repository.NewVariantDynamoRepository(ddb, tables)

	now := time.Now().UTC()
	for _, u := range users {
		u.ID = stableID("user", u.Email)
		u.CreatedAt = now
		if err := userRepo.Put(ctx, u); err != nil {
			log.Fatalf("[seed] put user failed email=%s err=%v", u.Email, err)
		}
		log.Printf("[seed] user id=%s email=%s", u.ID, u.Email)
	}

	variants := 0
	for _, sp := range catalog {
		product := entities.Product{
			ID:    stableID("product", sp.slug),
			Name:  sp.name,
			Slug:  sp.slug,
			Price: decimal.RequireFromString(sp.price),
			Brand: entities.Brand{ID: stableID("brand", sp.brand), Name: sp.brand},
		}
		if err := variantRepo.PutProduct(ctx, product); err != nil {
			log.Fatalf("[seed] put product failed slug=%s err=%v", sp.slug, err)
		}
		for _, sv := range sp.variants {
			v := entities.Variant{
				ID:        stableID("variant", sv.sku),
				ProductID: product.ID,
				Color:     sv.color,
				SKU:       sv.sku,
				Stock:     sv.stock,
			}
			if err := variantRepo.PutVariant(ctx, v); err != nil {
				log.Fatalf("[seed] put variant failed sku=%s err=%v", sv.sku, err)
			}
			log.Printf("[seed] variant id=%s sku=%s stock=%d", v.ID, v.SKU, v.Stock)
			variants++
		}
	}
	log.Printf("[seed] done users=%d products=%d variants=%d", len(users), len(catalog), variants)
}
