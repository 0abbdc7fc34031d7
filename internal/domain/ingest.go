package domain

import (
	"github.com/google/uuid"
)

// IngestRecord is one normalized post sent to the ingestion endpoint.
type IngestRecord struct {
	PlatformPostID    string            `json:"platform_post_id"`
	Content           string            `json:"content"`
	MediaURLs         []string          `json:"media_urls"`
	EngagementMetrics EngagementMetrics `json:"engagement_metrics"`
	// PostedAt is RFC3339; empty means unknown.
	PostedAt string `json:"posted_at"`
}

// IngestBatch carries posts for a single platform identity.
type IngestBatch struct {
	UserID           *uuid.UUID     `json:"user_id,omitempty"`
	WalletAddress    string         `json:"wallet_address,omitempty"`
	ChainID          int            `json:"chain_id,omitempty"`
	WalletType       string         `json:"wallet_type,omitempty"`
	PlatformName     string         `json:"platform_name"`
	PlatformUsername string         `json:"platform_username"`
	Posts            []IngestRecord `json:"posts"`
}

// RejectedRecord explains why one record of a batch was not stored.
type RejectedRecord struct {
	Index          int    `json:"index"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	Reason         string `json:"reason"`
}

// IngestResult summarizes one ingestion call.
type IngestResult struct {
	PlatformID uuid.UUID        `json:"platform_id"`
	Received   int              `json:"received"`
	Stored     int64            `json:"stored"`
	Rejected   []RejectedRecord `json:"rejected"`
}

// ScrapeResult summarizes a dispatcher run.
type ScrapeResult struct {
	Scraped   int                    `json:"scraped"`
	Platforms int                    `json:"platforms"`
	Details   []PlatformScrapeResult `json:"details,omitempty"`
}

// PlatformScrapeResult is the outcome for a single platform within a run.
type PlatformScrapeResult struct {
	PlatformID   uuid.UUID `json:"platform_id"`
	PlatformName string    `json:"platform_name"`
	Fetched      int       `json:"fetched"`
	Stored       int64     `json:"stored"`
	Error        string    `json:"error,omitempty"`
}
