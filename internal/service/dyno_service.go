package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dynotest/internal/apperr"
	"dynotest/internal/codec"
	"dynotest/internal/models"
	"dynotest/internal/repository"
)

// ListQuery are the retrieval modes of GET /api/dyno. All requires
// both the admin flag and an admin role; anything less is rejected
// rather than silently narrowed.
type ListQuery struct {
	ID    *int64
	Max   int
	All   bool
	Admin bool
}

// DefaultListMax caps a listing when the client does not say how many
// it wants.
const DefaultListMax = 5

const maxListLimit = 100

// ExportFormat selects the on-the-wire representation of a recording.
type ExportFormat string

const (
	FormatBin   ExportFormat = "bin"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
	FormatJSON  ExportFormat = "json"
)

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DynoService interface {
	// Upload runs the ingestion pipeline of one recording: decode the
	// info part, verify the data checksum, persist file then row.
	Upload(ctx context.Context, session models.UserSession, infoPart, dataPart []byte) (*models.Dyno, error)
	List(ctx context.Context, session models.UserSession, query ListQuery) ([]models.Dyno, error)
	Export(ctx context.Context, session models.UserSession, ownerUUID, filename string, format ExportFormat) (*Export, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}

type dynoService struct {
	dynos      repository.DynoRepository
	infos      repository.InfoRepository
	publicRoot string
}

func NewDynoService(dynos repository.DynoRepository, infos repository.InfoRepository, publicRoot string) DynoService {
	dir := filepath.Join(publicRoot, "dyno")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Failed to create dyno storage directory %s: %v", dir, err)
	}
	return &dynoService{
		dynos:      dynos,
		infos:      infos,
		publicRoot: publicRoot,
	}
}

func (s *dynoService) Upload(ctx context.Context, session models.UserSession, infoPart, dataPart []byte) (*models.Dyno, error) {
	info, err := codec.DecodeTestInfo(infoPart)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid info part: %v", err))
	}

	// Integrity gate. Nothing may be persisted before this passes.
	checksum := codec.Checksum(dataPart)
	if !codec.CompareChecksums(checksum, info.ChecksumHex) {
		return nil, apperr.ExpectationFailed("checksum mismatch: data stream differs from the declared checksum")
	}

	// Config dedup is best-effort: a recording without an info row is
	// still useful, so a lookup failure only costs the association.
	var infoID *int64
	row := infoRowFromConfig(info.Config)
	if id, err := s.infos.FindOrCreate(ctx, row); err != nil {
		log.Printf("Failed to find or create info row: %v", err)
	} else {
		infoID = &id
	}

	// Fresh per-upload identifier; concurrent uploads from one user
	// cannot collide on it.
	recordingUUID := uuid.NewString()

	dir := filepath.Join(s.publicRoot, "dyno", session.UUID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Internal("create recording directory", err)
	}
	location := filepath.Join(dir, recordingUUID+".dyno")

	// File before row: an orphaned file is recoverable, a row pointing
	// at a missing file is not.
	if err := os.WriteFile(location, dataPart, 0o644); err != nil {
		return nil, apperr.Internal("write recording payload", err)
	}

	dyno := &models.Dyno{
		UserID:       session.ID,
		InfoID:       infoID,
		UUID:         recordingUUID,
		DataLocation: location,
		DataChecksum: checksum,
		Start:        info.Start,
		Stop:         info.Stop,
	}
	if err := s.dynos.Create(ctx, dyno); err != nil {
		log.Printf("Recording row insert failed, payload orphaned at %s: %v", location, err)
		return nil, err
	}
	return dyno, nil
}

func (s *dynoService) List(ctx context.Context, session models.UserSession, query ListQuery) ([]models.Dyno, error) {
	max := query.Max
	if max < 1 {
		max = DefaultListMax
	}
	if max > maxListLimit {
		max = maxListLimit
	}

	if query.ID != nil {
		dyno, err := s.dynos.FindByID(ctx, *query.ID, session.ID)
		if err != nil {
			return nil, err
		}
		return []models.Dyno{*dyno}, nil
	}

	if query.All || query.Admin {
		if !query.All || !query.Admin || !session.Role.IsAdmin() {
			return nil, apperr.Forbidden("listing all recordings requires an admin session and the admin flag")
		}
		return s.dynos.ListAll(ctx, max)
	}

	return s.dynos.ListByUser(ctx, session.ID, max)
}

func (s *dynoService) Export(ctx context.Context, session models.UserSession, ownerUUID, filename string, format ExportFormat) (*Export, error) {
	if ownerUUID != session.UUID && !session.Role.IsAdmin() {
		return nil, apperr.Forbidden("you may only export your own recordings")
	}
	if !validStorageName(ownerUUID) || !validStorageName(filename) {
		return nil, apperr.BadRequest("invalid recording path")
	}

	location := filepath.Join(s.publicRoot, "dyno", ownerUUID, filename)
	data, err := os.ReadFile(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.NotFound("recording not found")
	}
	if err != nil {
		return nil, apperr.Internal("read recording payload", err)
	}

	base := strings.TrimSuffix(filename, ".dyno")

	if format == "" || format == FormatBin {
		return &Export{
			Filename:    filename,
			ContentType: "application/octet-stream",
			Data:        data,
		}, nil
	}

	buf, err := codec.DecodeBuffer(data)
	if err != nil {
		// The payload passed its checksum at upload time; a decode
		// failure here means corruption at rest.
		return nil, apperr.Internal("decode stored recording", err)
	}

	switch format {
	case FormatCSV:
		out, err := codec.ToCSV(buf)
		if err != nil {
			return nil, apperr.Internal("encode recording as csv", err)
		}
		return &Export{Filename: base + ".csv", ContentType: "text/csv", Data: out}, nil
	case FormatJSON:
		out, err := codec.ToJSON(buf)
		if err != nil {
			return nil, apperr.Internal("encode recording as json", err)
		}
		return &Export{Filename: base + ".json", ContentType: "application/json", Data: out}, nil
	case FormatExcel:
		out, err := codec.ToExcel(buf)
		if err != nil {
			return nil, apperr.Internal("encode recording as xlsx", err)
		}
		return &Export{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        out,
		}, nil
	default:
		return nil, apperr.BadRequest(fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *dynoService) SetVerified(ctx context.Context, id int64, verified bool) error {
	return s.dynos.SetVerified(ctx, id, verified)
}

// validStorageName rejects anything that could escape the per-owner
// storage directory.
func validStorageName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func infoRowFromConfig(cfg codec.MotorConfig) *models.Info {
	row := &models.Info{
		MotorType:           cfg.MotorType,
		RollerDiameter:      &cfg.RollerDiameter,
		LoadRollerDiameter:  &cfg.LoadRollerDiameter,
		EncoderGearDiameter: &cfg.EncoderGearDiameter,
		LoadGearDiameter:    &cfg.LoadGearDiameter,
		GearDistance:        &cfg.GearDistance,
		LoadWeight:          &cfg.LoadWeight,
		LoadForce:           &cfg.LoadForce,
		RollerCircumference: &cfg.RollerCircumference,
	}
	if cfg.Name != "" {
		row.Name = &cfg.Name
	}
	if cfg.MotorType == models.MotorEngine {
		row.CC = &cfg.CC
		row.Cylinder = &cfg.Cylinder
		row.Stroke = &cfg.Stroke
	}
	return row
}
