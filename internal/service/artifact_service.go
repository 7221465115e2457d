package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/storage"
)

// ArtifactStore adds artifact attachment to the mutation surface.
type ArtifactStore interface {
	MutationStore
	AttachArtifact(ctx context.Context, projectID, milestoneID, ref string) error
}

// ArtifactService simulates the decentralized-storage sponsor demo: uploaded
// deliverables are mirrored into blob storage and referenced from the
// milestone.
type ArtifactService struct {
	store ArtifactStore
	blobs storage.Storage
}

// NewArtifactService builds the artifact upload collaborator.
func NewArtifactService(store ArtifactStore, blobs storage.Storage) *ArtifactService {
	return &ArtifactService{store: store, blobs: blobs}
}

// Upload stores the artifact and attaches its reference to the milestone.
// Returns the stored reference.
func (s *ArtifactService) Upload(ctx context.Context, projectID, milestoneID, filename string, data io.Reader, contentType string) (string, error) {
	p, err := s.store.GetByID(projectID)
	if err != nil {
		return "", err
	}
	var title string
	found := false
	for _, m := range p.Milestones {
		if m.ID == milestoneID {
			title = m.Title
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("milestone %s: %w", milestoneID, repository.ErrNotFound)
	}

	key := path.Join("projects", projectID, milestoneID, path.Base(filename))
	ref, err := s.blobs.Save(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}

	if err := s.store.AttachArtifact(ctx, projectID, milestoneID, ref); err != nil {
		return "", err
	}
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Artifact Upload",
		fmt.Sprintf("Artifact for %q mirrored at %s", title, ref))
	return ref, nil
}
