package harness

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kdimtricp/vshazam-fixtures/internal/config"
	"github.com/kdimtricp/vshazam-fixtures/internal/database"
	"github.com/kdimtricp/vshazam-fixtures/internal/fixtures"
	"github.com/kdimtricp/vshazam-fixtures/internal/models"
	"github.com/kdimtricp/vshazam-fixtures/internal/report"
)

type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateDisabled
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateDisabled:
		return "disabled"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Batch is what one Insert wrote.
type Batch struct {
	Videos []models.Video
	Frames int
}

// Harness owns a single database connection and is not safe for concurrent use.
type Harness struct {
	cfg     config.Config
	log     logrus.FieldLogger
	gen     *fixtures.Generator
	out     io.Writer
	reports report.Storage

	db    *database.DB
	state State
}

type Option func(*Harness)

// WithOutput sets where verification reports are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Harness) { h.out = w }
}

// WithReportStorage additionally persists every verification report.
func WithReportStorage(s report.Storage) Option {
	return func(h *Harness) { h.reports = s }
}

func New(cfg config.Config, log logrus.FieldLogger, opts ...Option) *Harness {
	h := &Harness{
		cfg: cfg,
		log: log,
		gen: fixtures.NewGenerator(cfg.Fixtures.Seed, cfg.Fixtures.EmbeddingDim),
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Harness) State() State {
	return h.state
}

// Connect opens the configured database and makes sure the schema exists.
// On failure the harness is disabled and the error is logged and returned.
func (h *Harness) Connect(ctx context.Context) error {
	if h.db != nil {
		return nil
	}
	log := h.log.WithFields(logrus.Fields{
		"driver":   h.cfg.Database.Type,
		"endpoint": h.cfg.Database.Endpoint(),
	})

	db, err := database.NewDB(ctx, h.cfg.Database, h.log)
	if err != nil {
		h.state = StateDisabled
		log.WithError(err).Error("Connection error")
		return &Error{Code: CodeConnectionFailed, Op: "connect", Err: err}
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		h.state = StateDisabled
		log.WithError(err).Error("Schema setup failed")
		return &Error{Code: CodeSchemaFailed, Op: "ensure schema", Err: err}
	}

	h.db = db
	h.state = StateConnected
	log.Info("Connection successful")
	return nil
}

// Generate yields count synthetic videos.
func (h *Harness) Generate(count int) iter.Seq[models.Video] {
	return h.gen.Videos(count)
}

// GenerateFrames yields count synthetic frames for videoID.
func (h *Harness) GenerateFrames(videoID string, count int) iter.Seq[models.Frame] {
	return h.gen.Frames(videoID, count)
}

// Insert writes videos and framesPerVideo generated frames for each of them
// in one transaction. Any failure rolls the whole batch back.
func (h *Harness) Insert(ctx context.Context, videos []models.Video, framesPerVideo int) (Batch, error) {
	if h.db == nil {
		return Batch{}, h.notConnected("insert")
	}

	videoRepo := database.NewVideoRepository(h.db)
	frameRepo := database.NewFrameRepository(h.db)

	var frameCount int
	err := h.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := videoRepo.InsertVideos(ctx, tx, videos); err != nil {
			return err
		}
		for _, video := range videos {
			frames := slices.Collect(h.GenerateFrames(video.ID, framesPerVideo))
			if err := frameRepo.InsertFrames(ctx, tx, frames); err != nil {
				return err
			}
			frameCount += len(frames)
		}
		return nil
	})
	if err != nil {
		h.log.WithError(err).Error("Error inserting test data")
		return Batch{}, &Error{Code: CodeInsertFailed, Op: "insert", Err: err}
	}

	h.log.WithFields(logrus.Fields{
		"videos":           len(videos),
		"frames_per_video": framesPerVideo,
	}).Infof("Successfully inserted %d videos with %d frames each", len(videos), framesPerVideo)
	return Batch{Videos: videos, Frames: frameCount}, nil
}

// Verify runs the verification queries and prints what they return. It
// passes no judgement on the results.
func (h *Harness) Verify(ctx context.Context) (report.Report, error) {
	if h.db == nil {
		return report.Report{}, h.notConnected("verify")
	}

	r, err := h.db.Verify(ctx)
	if err != nil {
		h.log.WithError(err).Error("Error running test queries")
		return r, &Error{Code: CodeQueryFailed, Op: "verify", Err: err}
	}

	if err := report.Render(h.out, r); err != nil {
		h.log.WithError(err).Warn("Failed to print verification report")
	}

	if h.reports != nil {
		paths, err := h.reports.Save(r)
		if err != nil {
			h.log.WithError(err).Warn("Failed to save verification report")
		} else {
			h.log.WithField("files", paths).Info("Verification report saved")
		}
	}
	return r, nil
}

// Purge deletes every frame and video. Best effort: failures are rolled back
// and reported.
func (h *Harness) Purge(ctx context.Context) error {
	if h.db == nil {
		return h.notConnected("purge")
	}
	if err := h.db.Purge(ctx); err != nil {
		h.log.WithError(err).Error("Error cleaning up test data")
		return &Error{Code: CodePurgeFailed, Op: "purge", Err: err}
	}
	h.log.Info("Test data cleaned up successfully")
	return nil
}

// Close releases the connection. It is safe whether or not Connect ever
// succeeded, and safe to call more than once.
func (h *Harness) Close() error {
	if h.db == nil {
		h.state = StateClosed
		return nil
	}
	err := h.db.Close()
	h.db = nil
	h.state = StateClosed
	if err != nil {
		h.log.WithError(err).Warn("Error closing database")
	}
	return err
}

// Run is the full check: connect, insert the configured fixture batch,
// verify, optionally purge, close. Insert and verify failures do not stop
// the later steps; all errors are returned joined.
func (h *Harness) Run(ctx context.Context) (err error) {
	h.log.Info("Starting fixture run")
	defer func() {
		err = errors.Join(err, h.Close())
		h.log.Info("Tests completed")
	}()

	if err := h.Connect(ctx); err != nil {
		return err
	}

	var errs []error
	videos := slices.Collect(h.Generate(h.cfg.Fixtures.Videos))
	if _, err := h.Insert(ctx, videos, h.cfg.Fixtures.FramesPerVideo); err != nil {
		errs = append(errs, err)
	}
	if _, err := h.Verify(ctx); err != nil {
		errs = append(errs, err)
	}
	if h.cfg.Fixtures.Purge {
		if err := h.Purge(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Harness) notConnected(op string) error {
	return &Error{Code: CodeConnectionFailed, Op: op, Err: ErrNotConnected}
}
