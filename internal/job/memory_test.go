package job

import (
	"context"
	"testing"
)

func TestMemoryRepository_Save(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := New()

	if err := repo.Save(ctx, j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != j.ID {
		t.Errorf("expected ID %s, got %s", j.ID, saved.ID)
	}
}

func TestMemoryRepository_Save_Update(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := New()

	_ = repo.Save(ctx, j)

	_ = j.Start()
	j.Progress = 50
	_ = repo.Save(ctx, j)

	saved, _ := repo.FindByID(ctx, j.ID)
	if saved.Status != StatusRunning {
		t.Errorf("expected status %s, got %s", StatusRunning, saved.Status)
	}
	if saved.Progress != 50 {
		t.Errorf("expected progress 50, got %d", saved.Progress)
	}
}

func TestMemoryRepository_FindByID_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindByID(context.Background(), "nonexistent")
	if err != ErrJobNotFound {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMemoryRepository_FindByID_ReturnsClone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := New()
	_ = repo.Save(ctx, j)

	found, _ := repo.FindByID(ctx, j.ID)
	found.Progress = 99
	_ = found.Start()

	original, _ := repo.FindByID(ctx, j.ID)
	if original.Progress != 0 {
		t.Error("modifying returned job should not affect repository")
	}
	if original.Status != StatusPending {
		t.Error("modifying returned job status should not affect repository")
	}
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for range 3 {
		_ = repo.Save(ctx, New())
	}

	jobs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Errorf("expected 3 jobs, got %d", len(jobs))
	}
}

func TestMemoryRepository_List_CreationOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var ids []string
	for range 3 {
		j := New()
		ids = append(ids, j.ID)
		_ = repo.Save(ctx, j)
	}

	// Updating a job must not change its position.
	first, _ := repo.FindByID(ctx, ids[0])
	_ = first.Start()
	_ = repo.Save(ctx, first)

	jobs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	for i, j := range jobs {
		if j.ID != ids[i] {
			t.Errorf("position %d: expected %s, got %s", i, ids[i], j.ID)
		}
	}
	if jobs[0].Status != StatusRunning {
		t.Errorf("expected updated first job, got %s", jobs[0].Status)
	}
}
