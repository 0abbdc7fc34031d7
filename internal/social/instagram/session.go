package instagram

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Davincible/goinsta/v3"
	"github.com/orgball2608/social-feed/pkg/logger"
)

const loginAttempts = 3

// goinstaSource logs in on first use, reusing an exported session when one is on disk.
type goinstaSource struct {
	user        string
	pass        string
	sessionPath string
	logger      logger.Logger

	mu     sync.Mutex
	client *goinsta.Instagram
}

func (s *goinstaSource) ProfileItems(username string) ([]*goinsta.Item, error) {
	client, err := s.login()
	if err != nil {
		return nil, err
	}

	profile, err := client.VisitProfile(username)
	if err != nil {
		return nil, fmt.Errorf("visit instagram profile %s: %w", username, err)
	}
	if profile == nil || profile.Feed == nil {
		return nil, nil
	}
	return profile.Feed.Items, nil
}

func (s *goinstaSource) login() (*goinsta.Instagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	if client, err := s.importSession(); err == nil {
		s.logger.Info("Instagram session loaded", "path", s.sessionPath)
		s.client = client
		return client, nil
	}

	client := goinsta.New(s.user, s.pass)

	var err error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		if err = client.Login(); err == nil {
			break
		}
		s.logger.Error("Instagram login attempt failed", "attempt", attempt, "error", err)
		if attempt < loginAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("instagram login failed after %d attempts: %w", loginAttempts, err)
	}

	if err := s.exportSession(client); err != nil {
		s.logger.Warn("Failed to save Instagram session", "error", err)
	}

	s.client = client
	return client, nil
}

func (s *goinstaSource) importSession() (*goinsta.Instagram, error) {
	if s.sessionPath == "" {
		return nil, os.ErrNotExist
	}
	if _, err := os.Stat(s.sessionPath); err != nil {
		return nil, err
	}
	return goinsta.Import(s.sessionPath)
}

func (s *goinstaSource) exportSession(client *goinsta.Instagram) error {
	if s.sessionPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.sessionPath), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return client.Export(s.sessionPath)
}
