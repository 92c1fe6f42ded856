package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/teahouse/app/models"
)

// OrdersCollection is the collection orders are written to.
const OrdersCollection = "orders"

// orderDocument is the persisted shape of an order.
type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	Cart      []models.CartLine  `bson:"cart"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toDocument(o models.Order) orderDocument {
	return orderDocument{
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		Cart:      o.Cart,
		CreatedAt: o.CreatedAt,
	}
}

func (d orderDocument) toModel() models.Order {
	cart := d.Cart
	if cart == nil {
		cart = []models.CartLine{}
	}
	return models.Order{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Phone:     d.Phone,
		Address:   d.Address,
		Cart:      cart,
		CreatedAt: d.CreatedAt,
	}
}

// MongoOrderStore persists orders as single documents, so a cart is always
// written atomically with its order.
type MongoOrderStore struct {
	col *mongo.Collection
}

func NewMongoOrderStore(col *mongo.Collection) *MongoOrderStore {
	return &MongoOrderStore{col: col}
}

func (s *MongoOrderStore) Backend() string { return "mongo" }

// EnsureIndexes creates the createdAt index used by All.
func (s *MongoOrderStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	return wrap("index", err)
}

func (s *MongoOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	doc := toDocument(order)
	// BSON datetimes carry millisecond precision; truncate so the returned
	// order matches what a later listing reads back.
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Millisecond)
	doc.ID = primitive.NewObjectID()

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return models.Order{}, wrap("create", err)
	}
	return doc.toModel(), nil
}

func (s *MongoOrderStore) All(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrap("list", err)
	}

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrap("list", err)
	}

	out := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}
