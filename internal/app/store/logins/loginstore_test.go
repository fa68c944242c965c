package loginstore_test

import (
	"testing"

	loginstore "github.com/planaula/planaula/internal/app/store/logins"
	"github.com/planaula/planaula/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_RecordsAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mariaID := primitive.NewObjectID()
	store.RecordSuccess(ctx, loginstore.Attempt{
		UserID:    mariaID,
		Username:  "maria",
		Remote:    "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})
	store.RecordFailure(ctx, loginstore.Attempt{
		UserID:   mariaID,
		Username: "maria",
		Remote:   "203.0.113.7",
		Reason:   "wrong_password",
	})
	store.RecordFailure(ctx, loginstore.Attempt{
		Username: "ghost",
		Remote:   "203.0.113.8",
		Reason:   "unknown_user",
	})

	n, err := db.Collection("login_records").CountDocuments(ctx, bson.M{"username": "maria"})
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if n != 2 {
		t.Errorf("maria records: got %d, want 2", n)
	}

	var ok loginstore.Record
	err = db.Collection("login_records").FindOne(ctx, bson.M{"username": "maria", "success": true}).Decode(&ok)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if ok.UserID != mariaID {
		t.Errorf("user id: got %s, want %s", ok.UserID.Hex(), mariaID.Hex())
	}
	if ok.UserAgent != "Mozilla/5.0" {
		t.Errorf("user agent: got %q", ok.UserAgent)
	}
	if ok.Reason != "" {
		t.Errorf("success record has reason %q", ok.Reason)
	}
	if ok.ID == "" {
		t.Error("expected a generated id")
	}
	if ok.At.IsZero() {
		t.Error("expected At to be set")
	}

	var rec loginstore.Record
	err = db.Collection("login_records").FindOne(ctx, bson.M{"username": "ghost"}).Decode(&rec)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if rec.Success {
		t.Error("expected failure record")
	}
	if rec.Reason != "unknown_user" {
		t.Errorf("reason: got %q, want unknown_user", rec.Reason)
	}
	if !rec.UserID.IsZero() {
		t.Errorf("unknown user carries user id %s", rec.UserID.Hex())
	}
}
