package types

import "time"

// Transcription job status constants
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusTimeout    = "TIMEOUT"
)

// ExtractionResult is produced once per request. Platform is empty when the
// generic page path was used.
type ExtractionResult struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	WordCount     int        `json:"wordCount"`
	Platform      string     `json:"platform,omitempty"`
	Author        string     `json:"author,omitempty"`
	Comments      []string   `json:"comments,omitempty"`
	VideoInfo     *VideoInfo `json:"videoInfo,omitempty"`
	AudioInfo     *AudioInfo `json:"audioInfo,omitempty"`
	Transcription string     `json:"transcription,omitempty"`
	URL           string     `json:"url"`
}

// VideoInfo holds stream metadata probed from a downloaded media file.
// Zero values mean the external tool did not report the field.
type VideoInfo struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"durationSeconds"`
	SizeBytes       int64   `json:"sizeBytes"`
}

// AudioInfo describes the audio track of a media file. HasAudio=false
// short-circuits transcription.
type AudioInfo struct {
	HasAudio        bool    `json:"hasAudio"`
	DurationSeconds float64 `json:"durationSeconds"`
	BitrateKbps     int     `json:"bitrateKbps"`
	SampleRateHz    int     `json:"sampleRateHz"`
	Channels        int     `json:"channels"`
	Codec           string  `json:"codec"`
}

// TranscriptionJob is transient state for one hosted transcription attempt.
type TranscriptionJob struct {
	AudioFile     string
	ProviderJobID string
	Status        string
	ResultText    string
}

// TrustedSource is a static search template for one trusted news site.
type TrustedSource struct {
	BaseURL     string
	SearchParam string
}

// NewsHit is one accepted search result from a trusted site or web search.
type NewsHit struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	SourceHost string `json:"sourceHost"`
}

// VerificationResult is computed per keyword, never cached.
type VerificationResult struct {
	IsVerified   bool      `json:"isVerified"`
	IsFalseEvent bool      `json:"isFalseEvent"`
	Results      []NewsHit `json:"results"`
}

// NewsArticle is one source accepted by searchNews, with extracted content
// when extraction succeeded.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ProgressEvent is an ephemeral progress record delivered at-most-once to
// each connected listener.
type ProgressEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
