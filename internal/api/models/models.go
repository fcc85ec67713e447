package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24" doc:"Go runtime version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// CommandData is the common result shape for engine commands. Payload carries
// the command's success payload: the version string for initialize, the
// applied size or speaker layout for resets, "ok" for session start.
type CommandData struct {
	Status  string `json:"status" example:"success" doc:"Command status"`
	Payload string `json:"payload" example:"ok" doc:"Command result payload"`
}

type CommandResponse struct {
	Body CommandData
}

// Engine status models
type EngineStatusData struct {
	Initialized  bool   `json:"initialized" example:"true" doc:"Whether the engine core is running"`
	Version      string `json:"version,omitempty" example:"v31.0.2" doc:"Engine version string, empty before initialization"`
	SessionState string `json:"session_state" example:"idle" doc:"Streaming session state (idle, starting, running, stopping)"`
}

type EngineStatusResponse struct {
	Body EngineStatusData
}

// Engine command request bodies
type InitializeRequestData struct {
	Locale string `json:"locale,omitempty" example:"en-US" doc:"Engine locale, defaults to en-US"`
}

type InitializeRequest struct {
	Body InitializeRequestData
}

type VideoResetRequestData struct {
	Size string `json:"size,omitempty" example:"1920x1080" doc:"Base canvas size as WIDTHxHEIGHT, defaults applied when omitted"`
}

type VideoResetRequest struct {
	Body VideoResetRequestData
}

type AudioResetRequestData struct {
	Speakers string `json:"speakers,omitempty" example:"stereo" doc:"Speaker layout hint; anything containing \"mono\" selects mono, otherwise stereo"`
}

type AudioResetRequest struct {
	Body AudioResetRequestData
}

// Session models
type SessionStartRequestData struct {
	Target string `json:"target" example:"rtmp://live.example.com/app" doc:"Ingest URL for the streaming service"`
}

type SessionStartRequest struct {
	Body SessionStartRequestData
}

// Enumeration models
type EnumerationData struct {
	Items string `json:"items" example:"encoder-0, encoder-1" doc:"Comma-separated live handle names"`
}

type EnumerationResponse struct {
	Body EnumerationData
}

// Update models
type UpdateCheckData struct {
	CurrentVersion  string    `json:"current_version" example:"1.0.0" doc:"Version currently running"`
	LatestVersion   string    `json:"latest_version" example:"1.1.0" doc:"Latest released version"`
	ReleaseNotes    string    `json:"release_notes,omitempty" doc:"Release notes of the latest version"`
	ReleaseURL      string    `json:"release_url,omitempty" doc:"Release page URL"`
	PublishedAt     time.Time `json:"published_at,omitempty" doc:"Release publication time"`
	AssetSize       int       `json:"asset_size,omitempty" doc:"Release asset size in bytes"`
	UpdateAvailable bool      `json:"update_available" example:"true" doc:"Whether a newer version exists"`
}

type UpdateCheckResponse struct {
	Body UpdateCheckData
}

type UpdateStatusData struct {
	State           string     `json:"state" example:"idle" doc:"Updater state machine state"`
	CurrentVersion  string     `json:"current_version" example:"1.0.0" doc:"Version currently running"`
	TargetVersion   string     `json:"target_version,omitempty" doc:"Version of the detected update"`
	Error           string     `json:"error,omitempty" doc:"Last updater error"`
	LastChecked     *time.Time `json:"last_checked,omitempty" doc:"Time of the last update check"`
	BackupAvailable bool       `json:"backup_available" doc:"Whether a rollback backup exists"`
	BackupVersion   string     `json:"backup_version,omitempty" doc:"Version retained in the backup"`
}

type UpdateStatusResponse struct {
	Body UpdateStatusData
}

type UpdateActionData struct {
	Status  string `json:"status" example:"success" doc:"Action status"`
	Message string `json:"message" doc:"Human-readable result"`
}

type UpdateActionResponse struct {
	Body UpdateActionData
}

// Log models
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"INFO" doc:"Log level"`
	Module     string         `json:"module" example:"session" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Retained log entries, oldest first"`
	Count   int            `json:"count" example:"120" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
