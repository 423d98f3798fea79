package review

// Quality buckets used by the daily report.
const (
	bucketHighAtLeast   = 80
	bucketMediumAtLeast = 60
)

type QualityBucket string

const (
	BucketHigh   QualityBucket = "high"
	BucketMedium QualityBucket = "medium"
	BucketLow    QualityBucket = "low"
)

// BucketForScore assigns a quality score to its report bucket.
func BucketForScore(score int) QualityBucket {
	switch {
	case score >= bucketHighAtLeast:
		return BucketHigh
	case score >= bucketMediumAtLeast:
		return BucketMedium
	default:
		return BucketLow
	}
}

// DailyReport summarizes the trailing 24 hours of analyses.
type DailyReport struct {
	Date           string `json:"date"`
	TotalPRs       int    `json:"totalPRs"`
	AverageQuality int    `json:"averageQuality"`
	HighQuality    int    `json:"highQuality"`
	MediumQuality  int    `json:"mediumQuality"`
	LowQuality     int    `json:"lowQuality"`
	Summary        string `json:"summary"`
}

// HasData reports whether any analyses fell inside the report window.
func (r DailyReport) HasData() bool {
	return r.TotalPRs > 0
}
