package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

type mockStorage struct {
	saveFunc func(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
}

func (m *mockStorage) Save(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, key, data, contentType)
	}
	return "/uploads/" + key, nil
}

func (m *mockStorage) Delete(context.Context, string) error { return nil }

func TestArtifactService_Upload(t *testing.T) {
	st := demoFixture(t)
	var gotKey string
	blobs := &mockStorage{
		saveFunc: func(_ context.Context, key string, data io.Reader, _ string) (string, error) {
			gotKey = key
			_, _ = io.Copy(io.Discard, data)
			return "/uploads/" + key, nil
		},
	}
	svc := NewArtifactService(st, blobs)

	ref, err := svc.Upload(context.Background(), "p1", "a", "report.pdf", strings.NewReader("artifact body"), "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotKey != "projects/p1/a/report.pdf" {
		t.Errorf("storage key = %q", gotKey)
	}

	p, _ := st.GetByID("p1")
	if p.Milestones[0].ArtifactRef != ref {
		t.Errorf("artifact ref not attached: %q vs %q", p.Milestones[0].ArtifactRef, ref)
	}
	if p.Milestones[0].Status != model.StatusPending {
		t.Error("upload must not change milestone status")
	}
	if len(p.Activity) != 1 || p.Activity[0].Action != "Artifact Upload" {
		t.Errorf("unexpected activity: %+v", p.Activity)
	}
}

func TestArtifactService_UploadStorageFailure(t *testing.T) {
	st := demoFixture(t)
	blobs := &mockStorage{
		saveFunc: func(context.Context, string, io.Reader, string) (string, error) {
			return "", errors.New("mirror unavailable")
		},
	}
	svc := NewArtifactService(st, blobs)

	if _, err := svc.Upload(context.Background(), "p1", "a", "report.pdf", strings.NewReader("x"), ""); err == nil {
		t.Fatal("expected error when storage fails")
	}
	p, _ := st.GetByID("p1")
	if p.Milestones[0].ArtifactRef != "" {
		t.Error("failed upload must not attach a reference")
	}
}

func TestArtifactService_UploadNotFound(t *testing.T) {
	svc := NewArtifactService(demoFixture(t), &mockStorage{})

	if _, err := svc.Upload(context.Background(), "nope", "a", "f", strings.NewReader("x"), ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
