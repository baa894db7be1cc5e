package repository

import (
	"context"
	"log"

	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/database"
	"motostore/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type brandItem struct {
	ID   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
}

type productItem struct {
	ID    string    `dynamodbav:"id"`
	Name  string    `dynamodbav:"name"`
	Slug  string    `dynamodbav:"slug"`
	Price string    `dynamodbav:"price"`
	Brand brandItem `dynamodbav:"brand"`
}

type variantItem struct {
	ID        string `dynamodbav:"id"`
	ProductID string `dynamodbav:"product_id"`
	Color     string `dynamodbav:"color"`
	SKU       string `dynamodbav:"sku"`
	Stock     int    `dynamodbav:"stock"`
}

// VariantDynamoRepository loads variants together with their product and brand.
//
// Table requirements:
//   - variants PK: id; stock is a number attribute decremented by the order repository
//   - products PK: id; brand is an embedded map
type VariantDynamoRepository struct {
	ddb           *dynamodb.Client
	variantsTable string
	productsTable string
}

var _ interfaces.IVariantRepository = (*VariantDynamoRepository)(nil)

func NewVariantDynamoRepository(ddb *dynamodb.Client, tables database.Tables) *VariantDynamoRepository {
	return &VariantDynamoRepository{
		ddb:           ddb,
		variantsTable: tables.Variants,
		productsTable: tables.Products,
	}
}

// GetByIDs returns the variants found, in request order, with Product populated.
func (r *VariantDynamoRepository) GetByIDs(ctx context.Context, ids []string) ([]entities.Variant, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	rawVariants, err := batchGetByID(ctx, r.ddb, r.variantsTable, ids)
	if err != nil {
		return nil, err
	}
	variants := make(map[string]variantItem, len(rawVariants))
	productIDs := make([]string, 0, len(rawVariants))
	for _, raw := range rawVariants {
		var it variantItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		variants[it.ID] = it
		productIDs = append(productIDs, it.ProductID)
	}

	rawProducts, err := batchGetByID(ctx, r.ddb, r.productsTable, uniqueIDs(productIDs))
	if err != nil {
		return nil, err
	}
	products := make(map[string]entities.Product, len(rawProducts))
	for _, raw := range rawProducts {
		var it productItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		products[it.ID] = fromProductItem(it)
	}

	return assembleVariants(ids, variants, products), nil
}

// assembleVariants keeps request order and drops variants whose product is
// missing, so callers see them as not found.
func assembleVariants(ids []string, variants map[string]variantItem, products map[string]entities.Product) []entities.Variant {
	out := make([]entities.Variant, 0, len(variants))
	for _, id := range ids {
		it, ok := variants[id]
		if !ok {
			continue
		}
		p, ok := products[it.ProductID]
		if !ok {
			log.Printf("[checkout][repository] variant without product variant_id=%s product_id=%s", it.ID, it.ProductID)
			continue
		}
		out = append(out, fromVariantItem(it, p))
	}
	return out
}

// PutProduct upserts a product. Used by the seed command.
func (r *VariantDynamoRepository) PutProduct(ctx context.Context, p entities.Product) error {
	return r.put(ctx, r.productsTable, toProductItem(p))
}

// PutVariant upserts a variant. Used by the seed command.
func (r *VariantDynamoRepository) PutVariant(ctx context.Context, v entities.Variant) error {
	return r.put(ctx, r.variantsTable, toVariantItem(v))
}

func (r *VariantDynamoRepository) put(ctx context.Context, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	return err
}

func toProductItem(p entities.Product) productItem {
	return productItem{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: formatMoney(p.Price),
		Brand: brandItem{ID: p.Brand.ID, Name: p.Brand.Name},
	}
}

func fromProductItem(it productItem) entities.Product {
	return entities.Product{
		ID:    it.ID,
		Name:  it.Name,
		Slug:  it.Slug,
		Price: parseMoney(it.Price),
		Brand: entities.Brand{ID: it.Brand.ID, Name: it.Brand.Name},
	}
}

func toVariantItem(v entities.Variant) variantItem {
	productID := v.ProductID
	if productID == "" {
		productID = v.Product.ID
	}
	return variantItem{
		ID:        v.ID,
		ProductID: productID,
		Color:     v.Color,
		SKU:       v.SKU,
		Stock:     v.Stock,
	}
}

func fromVariantItem(it variantItem, p entities.Product) entities.Variant {
	return entities.Variant{
		ID:        it.ID,
		ProductID: it.ProductID,
		Color:     it.Color,
		SKU:       it.SKU,
		Stock:     it.Stock,
		Product:   p,
	}
}
