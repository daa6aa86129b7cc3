package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup indexes used when reviewing a visitor's
// or a target account's history.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "at", Value: -1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("ensure audit indexes: %w", err)
	}
	return nil
}

// InsertEvent persists one audit event to the audit_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, ev domain.AuditEvent) error {
	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, auditDocument(ev, time.Now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func auditDocument(ev domain.AuditEvent, now time.Time) bson.M {
	doc := bson.M{
		"session_id":  ev.SessionID,
		"action":      string(ev.Action),
		"succeeded":   ev.Succeeded,
		"at":          ev.At.UTC(),
		"recorded_at": now.UTC(),
	}
	if ev.ActorID != "" {
		doc["actor_id"] = ev.ActorID.String()
	}
	if ev.TargetID != "" {
		doc["target_id"] = ev.TargetID.String()
	}
	if ev.Detail != "" {
		doc["detail"] = ev.Detail
	}
	return doc
}
