package store

import (
	"context"
	"testing"

	"github.com/erazmer/lekarna/internal/db"
	"github.com/erazmer/lekarna/internal/model"
)

func TestAuditAppendAndQuery(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	entries := []model.AuditEntry{
		{EntityType: model.EntityProduct, EntityID: "p1", Action: model.ActionCreate, Details: "Created: Aspirin", PerformedBy: "alice"},
		{EntityType: model.EntityProduct, EntityID: "p1", Action: model.ActionStockUpdate, Details: "Stock: 5 -> 15", PerformedBy: "alice"},
		{EntityType: model.EntityUser, EntityID: "7", Action: model.ActionCreate, Details: "Created pharmacist", PerformedBy: "root"},
	}
	for _, e := range entries {
		if err := AppendAudit(ctx, database, e); err != nil {
			t.Fatalf("AppendAudit: %v", err)
		}
	}

	byActor, err := ListAuditByActor(ctx, database, "alice")
	if err != nil {
		t.Fatalf("ListAuditByActor: %v", err)
	}
	if len(byActor) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(byActor))
	}
	// Insertion order.
	if byActor[0].Action != model.ActionCreate || byActor[1].Action != model.ActionStockUpdate {
		t.Errorf("entries out of order: %v", byActor)
	}

	byEntity, err := ListAuditByEntity(ctx, database, model.EntityProduct, "p1")
	if err != nil {
		t.Fatalf("ListAuditByEntity: %v", err)
	}
	if len(byEntity) != 2 {
		t.Errorf("expected 2 entries for product p1, got %d", len(byEntity))
	}

	none, err := ListAuditByActor(ctx, database, "nobody")
	if err != nil {
		t.Fatalf("ListAuditByActor(nobody): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no entries, got %v", none)
	}
}

func TestAuditTimestampsAssigned(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := AppendAudit(ctx, database, model.AuditEntry{
		EntityType: model.EntitySale, EntityID: "s1", Action: model.ActionCreate, PerformedBy: "alice",
	})
	if err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}

	entries, _ := ListAuditByActor(ctx, database, "alice")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp not assigned")
	}
	if entries[0].ID == 0 {
		t.Error("id not assigned")
	}
}
