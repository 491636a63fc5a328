package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Persisted keys. Values are JSON except the two integer singletons, which
// are decimal strings.
const (
	KeyServices          = "web_services"
	KeyAdminSettings     = "admin_settings"
	KeyVideoPositions    = "video_positions"
	KeyCurrentVideoIndex = "current_video_index"
	KeyLastActivity      = "last_activity"
)

// ServiceDescriptor is one tile on the launcher grid. Collection order is
// display order and IDs are unique within the collection.
type ServiceDescriptor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// AdminSettings is the singleton admin record.
type AdminSettings struct {
	Password            string `json:"password"`
	InactivityTimeoutMs int64  `json:"inactivityTimeout"`
	MaxUploadBytes      int64  `json:"maxVideoFileSize"`
	AllowUpload         bool   `json:"allowVideoUpload"`
}

// UnmarshalJSON requires every field so a partial record is not mistaken
// for one with zero limits and uploads disabled.
func (a *AdminSettings) UnmarshalJSON(data []byte) error {
	var w struct {
		Password            *string `json:"password"`
		InactivityTimeoutMs *int64  `json:"inactivityTimeout"`
		MaxUploadBytes      *int64  `json:"maxVideoFileSize"`
		AllowUpload         *bool   `json:"allowVideoUpload"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.Password == nil:
		return missingField("password")
	case w.InactivityTimeoutMs == nil:
		return missingField("inactivityTimeout")
	case w.MaxUploadBytes == nil:
		return missingField("maxVideoFileSize")
	case w.AllowUpload == nil:
		return missingField("allowVideoUpload")
	}
	*a = AdminSettings{
		Password:            *w.Password,
		InactivityTimeoutMs: *w.InactivityTimeoutMs,
		MaxUploadBytes:      *w.MaxUploadBytes,
		AllowUpload:         *w.AllowUpload,
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("admin settings: missing field %q", name)
}

// InactivityTimeout returns the timeout as a duration.
func (a AdminSettings) InactivityTimeout() time.Duration {
	return time.Duration(a.InactivityTimeoutMs) * time.Millisecond
}

// VideoPosition is the resume point for one video, keyed by VideoName.
type VideoPosition struct {
	VideoName       string    `json:"videoName"`
	PositionSeconds float64   `json:"position"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UnmarshalJSON decodes an entry leniently: an empty or unparsable
// updatedAt becomes the zero time instead of failing the whole list.
func (p *VideoPosition) UnmarshalJSON(data []byte) error {
	var w struct {
		VideoName       string          `json:"videoName"`
		PositionSeconds float64         `json:"position"`
		UpdatedAt       json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = VideoPosition{VideoName: w.VideoName, PositionSeconds: w.PositionSeconds}
	var stamp string
	if json.Unmarshal(w.UpdatedAt, &stamp) == nil && stamp != "" {
		if t, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
			p.UpdatedAt = t
		}
	}
	return nil
}

// Validate checks the entry invariants: a name and a finite, non-negative
// position.
func (p VideoPosition) Validate() error {
	if p.VideoName == "" {
		return errors.New("video position has no name")
	}
	if p.PositionSeconds < 0 || math.IsNaN(p.PositionSeconds) || math.IsInf(p.PositionSeconds, 0) {
		return fmt.Errorf("position %v for %q must be a finite non-negative number", p.PositionSeconds, p.VideoName)
	}
	return nil
}

// DefaultServices returns a fresh copy of the built-in service list.
func DefaultServices() []ServiceDescriptor {
	return []ServiceDescriptor{
		{
			ID:              "1",
			Name:            "ChatGPT",
			URL:             "https://chat.openai.com",
			Description:     "AI 대화 서비스",
			Icon:            "fas fa-robot",
			BackgroundColor: "#10a37f",
			TextColor:       "#ffffff",
		},
		{
			ID:              "2",
			Name:            "Google",
			URL:             "https://www.google.com",
			Description:     "검색 엔진",
			Icon:            "fab fa-google",
			BackgroundColor: "#4285f4",
			TextColor:       "#ffffff",
		},
		{
			ID:              "3",
			Name:            "YouTube",
			URL:             "https://www.youtube.com",
			Description:     "동영상 플랫폼",
			Icon:            "fab fa-youtube",
			BackgroundColor: "#ff0000",
			TextColor:       "#ffffff",
		},
		{
			ID:              "4",
			Name:            "Naver",
			URL:             "https://www.naver.com",
			Description:     "포털 사이트",
			Icon:            "fas fa-search",
			BackgroundColor: "#03c75a",
			TextColor:       "#ffffff",
		},
	}
}

// DefaultAdminSettings returns the built-in admin settings.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		Password:            "1212",
		InactivityTimeoutMs: 30000,
		MaxUploadBytes:      100 * 1024 * 1024,
		AllowUpload:         true,
	}
}
