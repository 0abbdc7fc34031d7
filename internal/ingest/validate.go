package ingest

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
)

// Validate checks every record on its own. Valid records come back as posts
// without a platform id. Only the last record of a platform_post_id counts: a
// later valid record replaces an earlier one in place and a later rejected
// record drops it.
func Validate(records []domain.IngestRecord, now time.Time) ([]domain.Post, []domain.RejectedRecord) {
	posts := make([]domain.Post, 0, len(records))
	dropped := make([]bool, 0, len(records))
	rejected := make([]domain.RejectedRecord, 0)
	index := make(map[string]int, len(records))

	for i, rec := range records {
		post, err := validateRecord(rec, now)
		if err != nil {
			id := strings.TrimSpace(rec.PlatformPostID)
			rejected = append(rejected, domain.RejectedRecord{
				Index:          i,
				PlatformPostID: id,
				Reason:         err.Error(),
			})
			if j, ok := index[id]; ok {
				dropped[j] = true
				delete(index, id)
			}
			continue
		}

		if j, ok := index[post.PlatformPostID]; ok {
			posts[j] = post
			continue
		}
		index[post.PlatformPostID] = len(posts)
		posts = append(posts, post)
		dropped = append(dropped, false)
	}

	kept := posts[:0]
	for j, post := range posts {
		if !dropped[j] {
			kept = append(kept, post)
		}
	}
	return kept, rejected
}

func validateRecord(rec domain.IngestRecord, now time.Time) (domain.Post, error) {
	id := strings.TrimSpace(rec.PlatformPostID)
	switch {
	case id == "":
		return domain.Post{}, fmt.Errorf("platform_post_id is required")
	case utf8.RuneCountInString(id) > MaxPostIDLength:
		return domain.Post{}, fmt.Errorf("platform_post_id exceeds %d characters", MaxPostIDLength)
	}

	post := domain.Post{
		PlatformPostID:    id,
		EngagementMetrics: rec.EngagementMetrics,
		FetchedAt:         now.UTC(),
	}

	if content := strings.TrimSpace(rec.Content); content != "" {
		post.Content = &content
	}

	if raw := strings.TrimSpace(rec.PostedAt); raw != "" {
		postedAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return domain.Post{}, fmt.Errorf("posted_at must be RFC3339")
		}
		if postedAt.After(now.Add(MaxFutureSkew)) {
			return domain.Post{}, fmt.Errorf("posted_at is more than %s in the future", MaxFutureSkew)
		}
		postedAt = postedAt.UTC()
		post.PostedAt = &postedAt
	}

	for _, raw := range rec.MediaURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domain.Post{}, fmt.Errorf("media url %q is not an absolute http(s) url", raw)
		}
		post.MediaURLs = append(post.MediaURLs, u.String())
	}

	post.EnsureCollections()
	return post, nil
}

// Owner is the normalized identity part of a batch.
type Owner struct {
	UserID           *uuid.UUID
	WalletAddress    string
	ChainID          int
	WalletType       string
	PlatformName     string
	PlatformUsername string
}

// ValidateBatch checks the batch-level fields and returns the normalized owner.
func ValidateBatch(batch domain.IngestBatch) (Owner, error) {
	owner := Owner{
		UserID:           batch.UserID,
		ChainID:          batch.ChainID,
		WalletType:       strings.ToLower(strings.TrimSpace(batch.WalletType)),
		PlatformName:     domain.NormalizePlatformName(batch.PlatformName),
		PlatformUsername: strings.TrimSpace(batch.PlatformUsername),
	}

	if owner.PlatformName == "" {
		return owner, fmt.Errorf("platform_name is required")
	}
	if len(batch.Posts) > MaxBatchSize {
		return owner, fmt.Errorf("batch exceeds %d posts", MaxBatchSize)
	}
	if owner.WalletType != "" && !domain.IsValidWalletType(owner.WalletType) {
		return owner, fmt.Errorf("unsupported wallet_type %q", batch.WalletType)
	}

	if strings.TrimSpace(batch.WalletAddress) != "" {
		wallet, err := domain.NormalizeWallet(batch.WalletAddress)
		if err != nil {
			return owner, err
		}
		owner.WalletAddress = wallet
	}
	if owner.UserID == nil && owner.WalletAddress == "" {
		return owner, fmt.Errorf("wallet_address or user_id is required")
	}
	return owner, nil
}
