package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

const CustomerCollectionName = "Customers"

type CustomerRepository interface {
	Upsert(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
}

type mongoCustomerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCustomerRepository{
		cfg:        cfg,
		collection: db.Collection(CustomerCollectionName),
	}
}

// Upsert creates or merges the customer record. Only supplied fields are
// written; fields absent from the update keep their stored value
// (last-write-wins per field).
func (r *mongoCustomerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	if customer.ID == "" {
		return fmt.Errorf("customer id is required for upsert")
	}

	set := bson.M{
		"last_activity": time.Now().UTC().Truncate(time.Millisecond),
	}
	if customer.DisplayName != "" {
		set["display_name"] = customer.DisplayName
	}
	if customer.Name != "" {
		set["name"] = customer.Name
	}
	if customer.Phone != "" {
		set["phone"] = customer.Phone
	}
	if customer.Email != "" {
		set["email"] = customer.Email
	}
	if customer.PictureURL != "" {
		set["picture_url"] = customer.PictureURL
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": customer.ID}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}
