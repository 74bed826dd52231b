package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fittracker/server/internal/backup"
	"fittracker/server/internal/domain"
	"fittracker/server/internal/repository"
	"fittracker/server/internal/storage"

	"github.com/natefinch/atomic"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoCloudBackup = errors.New("no cloud backup exists for this account")
	ErrInvalidBackup = errors.New("backup document is invalid")
)

// importPauser suspends scheduled auto-exports while an import rewrites the
// coach's data. The backup scheduler satisfies it.
type importPauser interface {
	Pause()
	Resume()
}

type BackupService interface {
	// Export serializes the coach's complete planner state as a JSON
	// document.
	Export(ctx context.Context, coachID primitive.ObjectID) ([]byte, error)
	// Import validates a backup document and replaces the coach's planner
	// state with its contents. An invalid document changes nothing.
	Import(ctx context.Context, coachID primitive.ObjectID, data []byte) error
	// CloudExport uploads the current export to the coach's cloud blob,
	// overwriting the previous one. Also the scheduler's export callback.
	CloudExport(ctx context.Context, coachID primitive.ObjectID) error
	// CloudRestore downloads the cloud blob, merges it into the local state
	// record-by-record (newest timestamp wins) and persists the result.
	CloudRestore(ctx context.Context, coachID primitive.ObjectID) (*backup.Document, error)
}

type backupService struct {
	workoutRepo  repository.WorkoutRepository
	clientRepo   repository.ClientRepository
	profileRepo  repository.CoachProfileRepository
	fileStorage  storage.FileStorage
	pauser       importPauser
	snapshotPath string // local mirror directory, empty disables
}

// NewBackupService creates a new instance of backupService. fileStorage may
// be nil; the cloud operations then report an error.
func NewBackupService(
	workoutRepo repository.WorkoutRepository,
	clientRepo repository.ClientRepository,
	profileRepo repository.CoachProfileRepository,
	fileStorage storage.FileStorage,
	snapshotPath string,
) *backupService {
	return &backupService{
		workoutRepo:  workoutRepo,
		clientRepo:   clientRepo,
		profileRepo:  profileRepo,
		fileStorage:  fileStorage,
		snapshotPath: snapshotPath,
	}
}

// AttachScheduler wires the auto-backup scheduler in after construction.
// The scheduler's export callback is this service's CloudExport, so the two
// are created in sequence.
func (s *backupService) AttachScheduler(p importPauser) {
	s.pauser = p
}

func (s *backupService) Export(ctx context.Context, coachID primitive.ObjectID) ([]byte, error) {
	doc, err := s.collect(ctx, coachID)
	if err != nil {
		return nil, err
	}

	data, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	s.writeLocalSnapshot(coachID, data)
	return data, nil
}

func (s *backupService) Import(ctx context.Context, coachID primitive.ObjectID, data []byte) error {
	doc, err := backup.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if s.pauser != nil {
		s.pauser.Pause()
		defer s.pauser.Resume()
	}

	return s.apply(ctx, coachID, doc)
}

func (s *backupService) CloudExport(ctx context.Context, coachID primitive.ObjectID) error {
	if s.fileStorage == nil {
		return errors.New("file storage is not configured")
	}

	data, err := s.Export(ctx, coachID)
	if err != nil {
		return err
	}

	objectKey := cloudObjectKey(coachID)
	if err := s.fileStorage.UploadObject(ctx, objectKey, "application/json", data); err != nil {
		return err
	}

	log.Printf("INFO: Cloud backup written for coach %s (%d bytes)", coachID.Hex(), len(data))
	return nil
}

func (s *backupService) CloudRestore(ctx context.Context, coachID primitive.ObjectID) (*backup.Document, error) {
	if s.fileStorage == nil {
		return nil, errors.New("file storage is not configured")
	}

	data, err := s.fileStorage.DownloadObject(ctx, cloudObjectKey(coachID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNoCloudBackup
		}
		return nil, err
	}

	remote, err := backup.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	local, err := s.collect(ctx, coachID)
	if err != nil {
		return nil, err
	}

	merged := backup.Merge(*local, *remote)

	if s.pauser != nil {
		s.pauser.Pause()
		defer s.pauser.Resume()
	}
	if err := s.apply(ctx, coachID, &merged); err != nil {
		return nil, err
	}

	// apply re-owns records and mints IDs, so re-read the stored state
	// rather than returning the pre-normalization merge.
	return s.collect(ctx, coachID)
}

// collect gathers the coach's planner state into a backup document.
func (s *backupService) collect(ctx context.Context, coachID primitive.ObjectID) (*backup.Document, error) {
	workouts, err := s.workoutRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetDefault(ctx, coachID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return &backup.Document{
		Workouts:     workouts,
		Clients:      clients,
		CoachProfile: profile,
	}, nil
}

// apply replaces the coach's stored state with the document's contents.
// Ownership and record IDs are normalized so documents exported from
// another installation import cleanly.
func (s *backupService) apply(ctx context.Context, coachID primitive.ObjectID, doc *backup.Document) error {
	workouts := make([]domain.Workout, len(doc.Workouts))
	copy(workouts, doc.Workouts)
	for i := range workouts {
		if workouts[i].ID.IsZero() {
			workouts[i].ID = primitive.NewObjectID()
		}
		workouts[i].CoachID = coachID
	}

	clients := make([]domain.Client, len(doc.Clients))
	copy(clients, doc.Clients)
	for i := range clients {
		if clients[i].ID.IsZero() {
			clients[i].ID = primitive.NewObjectID()
		}
		clients[i].CoachID = coachID
	}

	if err := s.workoutRepo.ReplaceAllForCoach(ctx, coachID, workouts); err != nil {
		return err
	}
	if err := s.clientRepo.ReplaceAllForCoach(ctx, coachID, clients); err != nil {
		return err
	}

	var profile *domain.CoachProfile
	if doc.CoachProfile != nil {
		p := *doc.CoachProfile
		p.ID = primitive.NilObjectID
		p.CoachID = coachID
		profile = &p
	}
	return s.profileRepo.Replace(ctx, coachID, profile)
}

// writeLocalSnapshot mirrors the latest export to disk. Failures are logged
// and otherwise ignored; the snapshot is a convenience copy, not the backup
// of record.
func (s *backupService) writeLocalSnapshot(coachID primitive.ObjectID, data []byte) {
	if s.snapshotPath == "" {
		return
	}
	if err := os.MkdirAll(s.snapshotPath, 0o755); err != nil {
		log.Printf("ERROR: Failed to create snapshot directory %s: %v", s.snapshotPath, err)
		return
	}
	path := filepath.Join(s.snapshotPath, coachID.Hex()+".json")
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		log.Printf("ERROR: Failed to write local backup snapshot %s: %v", path, err)
	}
}

func cloudObjectKey(coachID primitive.ObjectID) string {
	return coachID.Hex() + "/data.json"
}
