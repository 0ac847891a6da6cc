package alias

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/bldriq/internal/catalog"
)

var (
	ErrUnknownScope = errors.New("scope not in catalog")
	ErrEmptyPattern = errors.New("alias pattern is empty")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=alias
type Repository interface {
	// FindMatch returns the scope of the longest stored pattern contained in
	// raw, ignoring case, or "" when nothing matches.
	FindMatch(ctx context.Context, raw string) (string, error)
	Save(ctx context.Context, pattern, scopeName string) error
}

// Scopes is the part of the catalog aliases resolve against.
type Scopes interface {
	Lookup(name string) (catalog.ScopeOfWork, bool)
}

type Service struct {
	repo   Repository
	scopes Scopes
}

func NewService(repo Repository, scopes Scopes) *Service {
	return &Service{repo: repo, scopes: scopes}
}

// Suggest tries to find a catalog scope for free text typed by an estimator.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, raw)
}

// Learn remembers that text containing pattern means scopeName. Relearning a
// pattern replaces its scope.
func (s *Service) Learn(ctx context.Context, pattern, scopeName string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ErrEmptyPattern
	}

	sow, ok := s.scopes.Lookup(scopeName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScope, scopeName)
	}

	return s.repo.Save(ctx, pattern, sow.Name)
}

// Resolve maps raw to a catalog scope name: the exact or built-in alias name
// first, then a learned alias. Text nothing recognizes comes back unchanged.
func (s *Service) Resolve(ctx context.Context, raw string) (string, error) {
	if sow, ok := s.scopes.Lookup(raw); ok {
		return sow.Name, nil
	}

	learned, err := s.Suggest(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("resolving alias: %w", err)
	}

	if learned == "" {
		return raw, nil
	}

	return learned, nil
}
