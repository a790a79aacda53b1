package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository создаёт документную реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{coll: store.Collection(collProducts)}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, productToDoc(product)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var doc productDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *productRepository) Save(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, productToDoc(product))
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) List(order domain.ProductSort) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	sort := bson.D{{Key: "createdAt", Value: -1}}
	if order == domain.ProductSortByPosition {
		sort = bson.D{{Key: "order", Value: 1}}
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	result := make([]domain.Product, len(docs))
	for i, doc := range docs {
		result[i] = doc.toDomain()
	}
	return result, nil
}

func (r *productRepository) MaxPosition() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var doc productDoc
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("find max position: %w", err)
	}
	return doc.Position, nil
}

// DecrementSizes списывает остатки одним условным UpdateOne: фильтр требует,
// чтобы каждая запрошенная размер-строка всё ещё имела достаточный остаток,
// поэтому конкурентные акцепты не могут увести количество ниже нуля.
func (r *productRepository) DecrementSizes(id string, lines []domain.SizeLine) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	conds := make(bson.A, 0, len(lines))
	inc := bson.M{}
	filters := make([]interface{}, 0, len(lines))
	for i, line := range lines {
		conds = append(conds, bson.M{
			"sizes": bson.M{"$elemMatch": bson.M{
				"size":     line.Size,
				"quantity": bson.M{"$gte": line.Quantity},
			}},
		})
		marker := fmt.Sprintf("s%d", i)
		inc[fmt.Sprintf("sizes.$[%s].quantity", marker)] = -line.Quantity
		filters = append(filters, bson.M{marker + ".size": line.Size})
	}

	filter := bson.M{"_id": id, "$and": conds}
	update := bson.M{"$inc": inc}

	res, err := r.coll.UpdateOne(ctx, filter, update,
		options.Update().SetArrayFilters(options.ArrayFilters{Filters: filters}))
	if err != nil {
		return fmt.Errorf("decrement sizes: %w", err)
	}
	if res.MatchedCount == 0 {
		// Различаем отсутствие товара и недостаток остатка.
		exists, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("check product existence: %w", err)
		}
		if exists == 0 {
			return domain.ErrProductNotFound
		}
		return domain.ErrOutOfStock
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
