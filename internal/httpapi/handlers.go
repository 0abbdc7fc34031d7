package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgball2608/social-feed/internal/domain"
	"github.com/orgball2608/social-feed/internal/feed"
	"github.com/orgball2608/social-feed/internal/scraper"
	apperrors "github.com/orgball2608/social-feed/pkg/errors"
)

const (
	actionScrape = "scrape"
	actionFeed   = "feed"
)

// scraperRequest is the social-scraper body. Query parameters override it.
type scraperRequest struct {
	Action        string `json:"action"`
	Limit         *int   `json:"limit"`
	UserID        string `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
	PlatformName  string `json:"platform_name"`
	// PlatformID narrows a scrape to one platform.
	PlatformID string `json:"platformId"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type syncRequest struct {
	PlatformID string `json:"platformId"`
}

type ingestResponse struct {
	Success bool `json:"success"`
	*domain.IngestResult
}

type connectResponse struct {
	Success bool `json:"success"`
	*feed.ConnectResult
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.log.Error("Failed to write response", "error", err)
	}
}

func (s *Server) handleSocialScraper(w http.ResponseWriter, r *http.Request) {
	var req scraperRequest
	if r.Method == http.MethodPost {
		if err := s.decodeBody(w, r, &req, true); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	q := r.URL.Query()
	overrideString(&req.Action, q.Get("action"))
	overrideString(&req.UserID, q.Get("user_id"))
	overrideString(&req.WalletAddress, q.Get("wallet_address"))
	overrideString(&req.PlatformName, q.Get("platform_name"))
	overrideString(&req.PlatformID, q.Get("platformId"))
	if raw := q.Get("limit"); raw != "" {
		limit, err := parseLimit(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		req.Limit = &limit
	}

	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case actionScrape:
		if !s.allow(w, r) {
			return
		}
		s.scrape(w, r, req.PlatformID)
	case actionFeed:
		filter, err := feedFilter(req.UserID, req.WalletAddress, req.PlatformName)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.Limit != nil {
			filter.Limit = *req.Limit
		}
		s.writeFeed(w, r, filter)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid action parameter"})
	}
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request, platformID string) {
	if platformID != "" {
		s.syncPlatform(w, r, platformID)
		return
	}

	res, err := s.scraper.ScrapeAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{Success: true, Message: scraper.SummaryMessage(res)})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := s.decodeBody(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.PlatformID == "" {
		s.writeError(w, r, apperrors.Invalid("platformId is required"))
		return
	}
	s.syncPlatform(w, r, req.PlatformID)
}

func (s *Server) syncPlatform(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseUUID("platformId", rawID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.scraper.ScrapePlatform(r.Context(), *id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{
		Success: true,
		Message: scraper.SyncMessage(res.PlatformName),
		Data:    res,
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var batch domain.IngestBatch
	if err := s.decodeBody(w, r, &batch, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.ingest.Ingest(r.Context(), batch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Success: true, IngestResult: res})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := feedFilter(q.Get("user_id"), q.Get("wallet_address"), q.Get("platform_name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if raw := q.Get("limit"); raw != "" {
		if filter.Limit, err = parseLimit(raw); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.writeFeed(w, r, filter)
}

func (s *Server) writeFeed(w http.ResponseWriter, r *http.Request, filter domain.FeedFilter) {
	posts, err := s.feed.Feed(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*domain.FeedPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := parseUUID("user_id", q.Get("user_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	connected, _ := strconv.ParseBool(q.Get("connected"))
	platforms, err := s.feed.Platforms(r.Context(), domain.PlatformFilter{
		UserID:        userID,
		WalletAddress: q.Get("wallet_address"),
		ConnectedOnly: connected,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, platforms)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req feed.ConnectRequest
	if err := s.decodeBody(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.feed.Connect(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, connectResponse{Success: true, ConnectResult: res})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if id == nil {
		s.writeError(w, r, apperrors.Invalid("id is required"))
		return
	}

	if err := s.feed.Disconnect(r.Context(), *id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{Success: true, Message: "Platform disconnected"})
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseUUID returns nil for an empty value.
func parseUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Invalid("%s must be a UUID", field)
	}
	return &id, nil
}

func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Invalid("limit must be an integer")
	}
	return limit, nil
}

func feedFilter(userID, wallet, platformName string) (domain.FeedFilter, error) {
	id, err := parseUUID("user_id", userID)
	if err != nil {
		return domain.FeedFilter{}, err
	}
	return domain.FeedFilter{
		UserID:        id,
		WalletAddress: wallet,
		PlatformName:  platformName,
	}, nil
}
