package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetbook/pkg/config"
)

const SettingsCollectionName = "Settings"

const dailyReportSettingID = "daily_report"

type reportSetting struct {
	ID           string `bson:"_id"`
	LastSentDate string `bson:"last_sent_date"`
}

// SettingsRepository remembers which local day was already reported so a
// restarted scheduler does not send the same summary twice.
type SettingsRepository interface {
	LastReportDate(ctx context.Context) (string, error)
	MarkReportSent(ctx context.Context, date string) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(SettingsCollectionName),
	}
}

func (r *mongoSettingsRepository) LastReportDate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var setting reportSetting
	err := r.collection.FindOne(ctx, bson.M{"_id": dailyReportSettingID}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load report setting: %w", err)
	}
	return setting.LastSentDate, nil
}

func (r *mongoSettingsRepository) MarkReportSent(ctx context.Context, date string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"last_sent_date": date,
		"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
	}}
	_, err := r.collection.UpdateByID(ctx, dailyReportSettingID, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record report date: %w", err)
	}
	return nil
}
