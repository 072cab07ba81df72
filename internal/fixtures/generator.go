// Package fixtures synthesizes video and frame rows for exercising the schema.
package fixtures

import (
	"fmt"
	"iter"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/kdimtricp/vshazam-fixtures/internal/models"
	"github.com/kdimtricp/vshazam-fixtures/internal/vector"
)

var (
	resolutions = []string{"720p", "1080p", "4K"}
	frameRates  = []int{24, 30, 60}
)

// Generator samples every field independently and uniformly. It is not safe
// for concurrent use.
type Generator struct {
	faker        *gofakeit.Faker
	seeded       bool
	embeddingDim int
}

// NewGenerator returns a generator producing embeddings of embeddingDim
// components. A non-zero seed makes the output, IDs included, reproducible.
func NewGenerator(seed int64, embeddingDim int) *Generator {
	return &Generator{
		faker:        gofakeit.New(seed),
		seeded:       seed != 0,
		embeddingDim: embeddingDim,
	}
}

// Videos yields count videos. Nothing is sampled until the sequence is ranged over.
func (g *Generator) Videos(count int) iter.Seq[models.Video] {
	return func(yield func(models.Video) bool) {
		for i := 0; i < count; i++ {
			if !yield(g.video()) {
				return
			}
		}
	}
}

// Frames yields count frames belonging to videoID, numbered from zero.
func (g *Generator) Frames(videoID string, count int) iter.Seq[models.Frame] {
	return func(yield func(models.Frame) bool) {
		for i := 0; i < count; i++ {
			if !yield(g.frame(videoID, i)) {
				return
			}
		}
	}
}

func (g *Generator) video() models.Video {
	f := g.faker
	return models.Video{
		ID:       g.newID(),
		Filename: fmt.Sprintf("%s_video_%d.mp4", f.Word(), f.Number(1, 1000)),
		Status:   f.RandomString(models.Statuses),
		Metadata: models.VideoMetadata{
			Duration:   f.Number(30, 3600),
			Resolution: f.RandomString(resolutions),
			FPS:        f.RandomInt(frameRates),
			Size:       int64(f.Number(1_000_000, 100_000_000)),
		},
	}
}

func (g *Generator) frame(videoID string, n int) models.Frame {
	f := g.faker
	return models.Frame{
		VideoID:     videoID,
		FrameNumber: n,
		Timestamp:   float64(n),
		FramePath:   fmt.Sprintf("/frames/%s/frame_%04d.jpg", videoID, n),
		Embedding:   vector.Encode(g.embedding()),
		Metadata: models.FrameMetadata{
			QualityScore: f.Float64Range(0.5, 1.0),
			Brightness:   f.Float64Range(0.0, 1.0),
			MotionScore:  f.Float64Range(0.0, 1.0),
		},
	}
}

func (g *Generator) embedding() []float32 {
	vec := make([]float32, g.embeddingDim)
	for i := range vec {
		vec[i] = g.faker.Float32Range(0, 1)
	}
	return vec
}

func (g *Generator) newID() string {
	if !g.seeded {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(g.faker.Rand)
	if err != nil {
		// math/rand never fails a read
		return uuid.NewString()
	}
	return id.String()
}
