package models

// Video statuses a fixture may carry.
const (
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

var Statuses = []string{StatusUploading, StatusProcessing, StatusComplete, StatusError}

type VideoMetadata struct {
	Duration   int    `json:"duration"`
	Resolution string `json:"resolution"`
	FPS        int    `json:"fps"`
	Size       int64  `json:"size"`
}

// Video is a row of the videos table. created_at and updated_at are filled
// by the database and never written from here.
type Video struct {
	ID       string        `gorm:"column:id;primaryKey" json:"id"`
	Filename string        `gorm:"column:filename;not null" json:"filename"`
	Status   string        `gorm:"column:status;not null" json:"status"`
	Metadata VideoMetadata `gorm:"column:metadata;serializer:json" json:"metadata"`
}

func (Video) TableName() string {
	return "videos"
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
