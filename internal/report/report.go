// Package report holds the result of a verification pass and renders it.
package report

import (
	"fmt"
	"io"
	"time"
)

type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int64  `json:"count" yaml:"count"`
}

type VideoResolution struct {
	VideoID    string `json:"video_id" yaml:"video_id"`
	Resolution string `json:"resolution" yaml:"resolution"`
}

type VideoFrameCount struct {
	VideoID string `json:"video_id" yaml:"video_id"`
	Frames  int64  `json:"frames" yaml:"frames"`
}

// Report is what a verification pass observed. It makes no judgement about
// whether the numbers are right.
type Report struct {
	GeneratedAt      time.Time         `json:"generated_at" yaml:"generated_at"`
	Driver           string            `json:"driver" yaml:"driver"`
	TotalVideos      int64             `json:"total_videos" yaml:"total_videos"`
	StatusCounts     []StatusCount     `json:"status_counts" yaml:"status_counts"`
	TotalFrames      int64             `json:"total_frames" yaml:"total_frames"`
	Resolutions      []VideoResolution `json:"resolutions" yaml:"resolutions"`
	FramesPerVideo   []VideoFrameCount `json:"frames_per_video" yaml:"frames_per_video"`
	EmbeddingLengths []int64           `json:"embedding_lengths" yaml:"embedding_lengths"`
	OrphanFrames     int64             `json:"orphan_frames" yaml:"orphan_frames"`
}

// Render writes r in the plain layout operators read after a run.
func Render(w io.Writer, r Report) error {
	p := &printer{w: w}

	p.printf("Testing video queries:\n")
	p.printf("Total videos: %d\n", r.TotalVideos)

	p.printf("\nStatus distribution:\n")
	for _, s := range r.StatusCounts {
		p.printf("%s: %d\n", s.Status, s.Count)
	}

	p.printf("\nTesting frame queries:\n")
	p.printf("Total frames: %d\n", r.TotalFrames)

	p.printf("\nTesting JSON metadata queries:\n")
	p.printf("Sample video resolutions:\n")
	for _, v := range r.Resolutions {
		p.printf("Video %s: %s\n", v.VideoID, v.Resolution)
	}

	p.printf("\nFrames per video:\n")
	for _, v := range r.FramesPerVideo {
		p.printf("Video %s: %d frames\n", v.VideoID, v.Frames)
	}

	p.printf("\nEmbedding byte lengths: %v\n", r.EmbeddingLengths)
	p.printf("Orphaned frames: %d\n", r.OrphanFrames)

	return p.err
}

// printer keeps the first write error so Render can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
