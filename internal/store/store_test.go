// Package store provides integration tests for SurrealDB operations.
package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStore *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	// Start SurrealDB container
	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	// Get container host and port
	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	// Connect to test database
	testStore, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	// Initialize schema
	if err := testStore.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	_ = testStore.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func TestCacheGetAbsent(t *testing.T) {
	ctx := context.Background()

	_, _, ok, err := testStore.Get(ctx, "never-written")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("absent key should report ok=false")
	}
}

func TestCacheRoundtrip(t *testing.T) {
	ctx := context.Background()

	ts := time.Now().UTC().Truncate(time.Millisecond)
	payload := []byte(`[{"id":"p1","name":"Echo"}]`)
	if err := testStore.Set(ctx, "roundtrip-key", payload, ts); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, gotTS, ok, err := testStore.Get(ctx, "roundtrip-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get should find the written key")
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
	if gotTS.IsZero() {
		t.Error("stored_at should be set")
	}
}

func TestCacheOverwrite(t *testing.T) {
	ctx := context.Background()

	_ = testStore.Set(ctx, "overwrite-key", []byte("old"), time.Now())
	if err := testStore.Set(ctx, "overwrite-key", []byte("new"), time.Now()); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	got, _, ok, err := testStore.Get(ctx, "overwrite-key")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(got) != "new" {
		t.Errorf("payload = %q, want overwritten value", got)
	}
}

func TestWishlistPutAllDelete(t *testing.T) {
	ctx := context.Background()

	products := []catalog.Product{
		{ID: "w1", Name: "Echo Dot", PriceEstimate: "R$ 349,00", ProductURL: "https://amazon.com.br/dp/B09"},
		{ID: "w2", Name: "Kindle", PriceEstimate: "R$ 499,00", ProductURL: "https://amazon.com.br/dp/B08"},
	}
	for _, p := range products {
		if err := testStore.WishlistPut(ctx, p); err != nil {
			t.Fatalf("WishlistPut failed: %v", err)
		}
	}
	defer func() {
		_ = testStore.WishlistDelete(ctx, "w1")
		_ = testStore.WishlistDelete(ctx, "w2")
	}()

	saved, err := testStore.WishlistAll(ctx)
	if err != nil {
		t.Fatalf("WishlistAll failed: %v", err)
	}
	found := make(map[string]catalog.Product)
	for _, p := range saved {
		found[p.ID] = p
	}
	if _, ok := found["w1"]; !ok {
		t.Error("w1 missing from wishlist")
	}
	if got := found["w2"]; got.Name != "Kindle" || got.PriceEstimate != "R$ 499,00" {
		t.Errorf("w2 fields lost: %+v", got)
	}

	// Delete one and verify
	if err := testStore.WishlistDelete(ctx, "w1"); err != nil {
		t.Fatalf("WishlistDelete failed: %v", err)
	}
	saved, _ = testStore.WishlistAll(ctx)
	for _, p := range saved {
		if p.ID == "w1" {
			t.Error("w1 should be deleted")
		}
	}
}

func TestWishlistPutSameIDNoDuplicate(t *testing.T) {
	ctx := context.Background()

	p := catalog.Product{ID: "dup", Name: "Original"}
	_ = testStore.WishlistPut(ctx, p)
	p.Name = "Updated"
	if err := testStore.WishlistPut(ctx, p); err != nil {
		t.Fatalf("second WishlistPut failed: %v", err)
	}
	defer func() { _ = testStore.WishlistDelete(ctx, "dup") }()

	saved, err := testStore.WishlistAll(ctx)
	if err != nil {
		t.Fatalf("WishlistAll failed: %v", err)
	}
	count := 0
	for _, got := range saved {
		if got.ID == "dup" {
			count++
			if got.Name != "Updated" {
				t.Errorf("upsert did not update: %+v", got)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one record for the id, got %d", count)
	}
}

func TestWishlistDeleteMissingID(t *testing.T) {
	ctx := context.Background()

	if err := testStore.WishlistDelete(ctx, "never-existed"); err != nil {
		t.Errorf("deleting a missing id should not error: %v", err)
	}
}
