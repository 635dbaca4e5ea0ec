package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository"
)

// SiteContentService manages the singleton home-page content document.
// Every read and write passes through the same normalization, so a bad
// persisted document can never be re-served unsanitized.
type SiteContentService struct {
	repo repository.SiteContentRepository
}

// NewSiteContentService creates a new site content service
func NewSiteContentService(repo repository.SiteContentRepository) *SiteContentService {
	return &SiteContentService{repo: repo}
}

// DefaultSiteContent is the fallback served when nothing usable is stored.
func DefaultSiteContent() domain.SiteContent {
	return domain.SiteContent{
		Home: domain.HomeContent{
			HeroTitle:    "Serenity",
			HeroSubtitle: "A community gallery for our weekly highlights.",
			PrimaryCTA: domain.CallToAction{
				Label: "Browse the gallery",
				Href:  "/weekly",
			},
			SecondaryCTA: domain.CallToAction{
				Label: "Join us on Discord",
				Href:  "https://discord.gg/serenity",
			},
			Features: []domain.FeatureCard{
				{ID: "gallery", Title: "Weekly galleries", Description: "Fresh screenshots from the community, every week."},
				{ID: "events", Title: "Events", Description: "Announcements and recaps of community events."},
			},
		},
	}
}

// Get returns the stored document normalized, or the fallback. It never
// returns an error: read failures degrade to the default document.
func (s *SiteContentService) Get(ctx context.Context) domain.SiteContent {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		slog.Warn("Site content read failed, serving fallback", "err", err)
		return DefaultSiteContent()
	}
	if stored == nil {
		return DefaultSiteContent()
	}

	normalized := normalizeSiteContent(*stored)
	normalized.UpdatedAt = stored.UpdatedAt
	normalized.UpdatedBy = stored.UpdatedBy
	return normalized
}

// Save normalizes the caller-supplied document, stamps it, and persists by
// full overwrite. Caller-side normalization is never trusted.
func (s *SiteContentService) Save(ctx context.Context, raw domain.SiteContent, editorID string) (domain.SiteContent, error) {
	normalized := normalizeSiteContent(raw)
	normalized.UpdatedAt = time.Now()
	normalized.UpdatedBy = editorID

	if err := s.repo.Save(ctx, normalized); err != nil {
		return domain.SiteContent{}, fmt.Errorf("save site content: %w", err)
	}
	return normalized, nil
}

// normalizeSiteContent runs every field through the sanitizers, using the
// default document for per-field fallbacks.
func normalizeSiteContent(in domain.SiteContent) domain.SiteContent {
	def := DefaultSiteContent()

	out := domain.SiteContent{
		Home: domain.HomeContent{
			HeroTitle:        sanitizeText(in.Home.HeroTitle, def.Home.HeroTitle),
			HeroSubtitle:     sanitizeText(in.Home.HeroSubtitle, def.Home.HeroSubtitle),
			HeroSubtitleHTML: sanitizeHTML(in.Home.HeroSubtitleHTML),
			PrimaryCTA: domain.CallToAction{
				Label: sanitizeText(in.Home.PrimaryCTA.Label, def.Home.PrimaryCTA.Label),
				Href:  sanitizeHref(in.Home.PrimaryCTA.Href, def.Home.PrimaryCTA.Href),
			},
			SecondaryCTA: domain.CallToAction{
				Label: sanitizeText(in.Home.SecondaryCTA.Label, def.Home.SecondaryCTA.Label),
				Href:  sanitizeHref(in.Home.SecondaryCTA.Href, def.Home.SecondaryCTA.Href),
			},
		},
	}

	for _, card := range in.Home.Features {
		title := sanitizeText(card.Title, "")
		description := sanitizeText(card.Description, "")
		if title == "" && description == "" {
			continue
		}
		id := strings.TrimSpace(card.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out.Home.Features = append(out.Home.Features, domain.FeatureCard{
			ID:          id,
			Title:       title,
			Description: description,
		})
		if len(out.Home.Features) == domain.MaxFeatureCards {
			break
		}
	}

	return out
}
