package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wmarfa/production-db/internal/mes/entity"
	"github.com/wmarfa/production-db/internal/mes/repository"
	"github.com/wmarfa/production-db/internal/mes/testutil"
)

func TestProductCreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewProductService(repository.NewProductRepository(db))
	ctx := context.Background()

	p, err := svc.Create(ctx, &ProductInput{Code: "PCB-X", Name: "Main board", Circuit: 250, MHR: 0.5, QtyPerPack: 20})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != "PCB-X" || got.Circuit != 250 {
		t.Errorf("Unexpected product: %+v", got)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := svc.Create(ctx, &ProductInput{Code: "", Circuit: 1}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing code, got %v", err)
	}
	if _, err := svc.Create(ctx, &ProductInput{Code: "PCB-Y", Circuit: 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for non-positive circuit, got %v", err)
	}
	if _, err := svc.Create(ctx, &ProductInput{Code: "PCB-X", Circuit: 5}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate code, got %v", err)
	}
}

func TestProductDeleteGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	productSvc := NewProductService(repos.Product)
	perfSvc := NewPerformanceService(db, repos.Performance)
	ctx := context.Background()

	referenced := testutil.SeedProduct(t, db, "PCB-A", 250, 0.5)
	free := testutil.SeedProduct(t, db, "PCB-B", 120, 0.3)

	_, err := perfSvc.Create(ctx, &RecordInput{
		Date:      "2026-09-01",
		LineShift: "LINE-1 DAY",
		AssemblyLines: []LineEntry{
			{ProductID: referenced.ID, Qty: 10},
		},
	})
	if err != nil {
		t.Fatalf("Create record failed: %v", err)
	}

	// referenced product must be rejected with a conflict, rows untouched
	if err := productSvc.Delete(ctx, referenced.ID); !errors.Is(err, ErrProductReferenced) {
		t.Fatalf("Expected ErrProductReferenced, got %v", err)
	}
	var count int64
	db.Model(&entity.Product{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected both products intact, got %d", count)
	}

	// unreferenced product deletes normally
	if err := productSvc.Delete(ctx, free.ID); err != nil {
		t.Fatalf("Delete of unreferenced product failed: %v", err)
	}
	if _, err := productSvc.Get(ctx, free.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected product gone, got %v", err)
	}
}
