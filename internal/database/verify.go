package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kdimtricp/vshazam-fixtures/internal/report"
)

// sampleLimit caps the per-row sections of a report.
const sampleLimit = 5

// jsonText extracts key from a JSON column as text.
func (db *DB) jsonText(column, key string) string {
	switch db.dbType {
	case Postgres:
		return fmt.Sprintf("%s->>'%s'", column, key)
	case MySQL:
		return fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(%s, '$.%s'))", column, key)
	default:
		return fmt.Sprintf("json_extract(%s, '$.%s')", column, key)
	}
}

func (db *DB) byteLength(column string) string {
	if db.dbType == Postgres {
		return fmt.Sprintf("octet_length(%s)", column)
	}
	return fmt.Sprintf("LENGTH(%s)", column)
}

// Verify runs the fixed read-only query set and collects what it sees. It
// asserts nothing; the first failing query aborts the pass.
func (db *DB) Verify(ctx context.Context) (report.Report, error) {
	r := report.Report{
		GeneratedAt: time.Now(),
		Driver:      db.dbType,
	}

	videos := NewVideoRepository(db)
	frames := NewFrameRepository(db)

	var err error
	if r.TotalVideos, err = videos.Count(ctx); err != nil {
		return r, err
	}
	if r.StatusCounts, err = db.statusCounts(ctx); err != nil {
		return r, err
	}
	if r.TotalFrames, err = frames.Count(ctx); err != nil {
		return r, err
	}
	if r.Resolutions, err = db.sampleResolutions(ctx); err != nil {
		return r, err
	}
	if r.FramesPerVideo, err = db.framesPerVideo(ctx); err != nil {
		return r, err
	}
	if r.EmbeddingLengths, err = db.embeddingLengths(ctx); err != nil {
		return r, err
	}
	if r.OrphanFrames, err = db.orphanFrames(ctx); err != nil {
		return r, err
	}
	return r, nil
}

func (db *DB) statusCounts(ctx context.Context) ([]report.StatusCount, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM videos GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status distribution: %w", err)
	}
	defer rows.Close()

	var counts []report.StatusCount
	for rows.Next() {
		var c report.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (db *DB) sampleResolutions(ctx context.Context) ([]report.VideoResolution, error) {
	query := fmt.Sprintf(`SELECT id, %s FROM videos ORDER BY id LIMIT %d`,
		db.jsonText("metadata", "resolution"), sampleLimit)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query video resolutions: %w", err)
	}
	defer rows.Close()

	var out []report.VideoResolution
	for rows.Next() {
		var v report.VideoResolution
		var resolution sql.NullString
		if err := rows.Scan(&v.VideoID, &resolution); err != nil {
			return nil, fmt.Errorf("failed to scan video resolution: %w", err)
		}
		v.Resolution = resolution.String
		out = append(out, v)
	}
	return out, rows.Err()
}

func (db *DB) framesPerVideo(ctx context.Context) ([]report.VideoFrameCount, error) {
	query := fmt.Sprintf(`
		SELECT video_id, COUNT(*) AS frame_count
		FROM frames
		GROUP BY video_id
		ORDER BY video_id
		LIMIT %d`, sampleLimit)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames per video: %w", err)
	}
	defer rows.Close()

	var out []report.VideoFrameCount
	for rows.Next() {
		var v report.VideoFrameCount
		if err := rows.Scan(&v.VideoID, &v.Frames); err != nil {
			return nil, fmt.Errorf("failed to scan frame count: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// embeddingLengths returns every distinct stored embedding size in bytes.
func (db *DB) embeddingLengths(ctx context.Context) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s AS embedding_length
		FROM frames
		WHERE embedding IS NOT NULL
		ORDER BY embedding_length`, db.byteLength("embedding"))

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query embedding lengths: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan embedding length: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (db *DB) orphanFrames(ctx context.Context) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM frames f
		LEFT JOIN videos v ON v.id = f.video_id
		WHERE v.id IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned frames: %w", err)
	}
	return count, nil
}
