package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/sirupsen/logrus"
)

const snapshotPrefix = "snapshot-"

// Archive stores ready snapshots and keeps only the most recent ones
type Archive struct {
	store StorageInterface
	keep  int
}

// NewArchive wraps a store. keep <= 0 disables pruning.
func NewArchive(store StorageInterface, keep int) *Archive {
	return &Archive{store: store, keep: keep}
}

// Save writes a ready snapshot and prunes old ones. It returns the object name.
func (a *Archive) Save(ctx context.Context, snapshot *models.Snapshot) (string, error) {
	if !snapshot.Ready() {
		return "", fmt.Errorf("only ready snapshots can be archived")
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	name := SnapshotName(snapshot)
	if err := a.store.Store(ctx, name, data); err != nil {
		return "", err
	}
	logrus.Infof("Archived snapshot %s", name)

	if err := a.prune(ctx); err != nil {
		logrus.Warnf("Failed to prune snapshot archive: %v", err)
	}
	return name, nil
}

// List returns archived snapshot names, newest first
func (a *Archive) List(ctx context.Context) ([]string, error) {
	names, err := a.store.List(ctx, snapshotPrefix)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Load reads one archived snapshot
func (a *Archive) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	if !strings.HasPrefix(name, snapshotPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := a.store.Retrieve(ctx, name)
	if err != nil {
		return nil, err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse archived snapshot %s: %w", name, err)
	}
	return &snapshot, nil
}

func (a *Archive) prune(ctx context.Context) error {
	if a.keep <= 0 {
		return nil
	}

	names, err := a.List(ctx)
	if err != nil {
		return err
	}

	for _, name := range names[min(a.keep, len(names)):] {
		if err := a.store.Delete(ctx, name); err != nil {
			return err
		}
		logrus.Debugf("Pruned archived snapshot %s", name)
	}
	return nil
}

// SnapshotName orders lexically by generation time
func SnapshotName(snapshot *models.Snapshot) string {
	id := snapshot.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s%s-%s.json", snapshotPrefix, snapshot.GeneratedAt.UTC().Format("20060102-150405"), id)
}
