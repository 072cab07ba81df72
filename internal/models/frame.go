package models

type FrameMetadata struct {
	QualityScore float64 `json:"quality_score"`
	Brightness   float64 `json:"brightness"`
	MotionScore  float64 `json:"motion_score"`
}

// Frame is a row of the frames table. ID is assigned by the database on insert.
type Frame struct {
	ID          int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VideoID     string        `gorm:"column:video_id;not null" json:"video_id"`
	FrameNumber int           `gorm:"column:frame_number;not null" json:"frame_number"`
	Timestamp   float64       `gorm:"column:timestamp;not null" json:"timestamp"`
	FramePath   string        `gorm:"column:frame_path;not null" json:"frame_path"`
	Embedding   []byte        `gorm:"column:embedding" json:"-"`
	Metadata    FrameMetadata `gorm:"column:metadata;serializer:json" json:"metadata"`
}

func (Frame) TableName() string {
	return "frames"
}
