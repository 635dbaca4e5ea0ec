package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository/memory"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

func TestSiteContentService_GetServesDefaultWhenEmpty(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	content := svc.Get(context.Background())
	assert.Equal(t, service.DefaultSiteContent(), content)
}

func TestSiteContentService_GetServesDefaultOnReadFailure(t *testing.T) {
	repo := memory.NewSiteContentRepository()
	repo.FailWith = fmt.Errorf("connection refused")
	svc := service.NewSiteContentService(repo)

	content := svc.Get(context.Background())
	assert.Equal(t, service.DefaultSiteContent(), content)
}

func TestSiteContentService_SaveSanitizesRichText(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	doc := service.DefaultSiteContent()
	doc.Home.HeroSubtitleHTML = `<p>Hello <strong>world</strong>` +
		`<script>alert(1)</script>` +
		` <a href="javascript:alert(1)">bad</a>` +
		` <a href="https://example.com">good</a></p>`

	saved, err := svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)

	html := saved.Home.HeroSubtitleHTML
	assert.Contains(t, html, "<strong>world</strong>")
	assert.Contains(t, html, `href="https://example.com"`)
	assert.NotContains(t, html, "script")
	assert.NotContains(t, html, "javascript:")
}

func TestSiteContentService_SaveSanitizesHrefs(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	doc := service.DefaultSiteContent()
	doc.Home.PrimaryCTA.Href = "javascript:alert(1)"
	doc.Home.SecondaryCTA.Href = "#events"

	saved, err := svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)

	def := service.DefaultSiteContent()
	assert.Equal(t, def.Home.PrimaryCTA.Href, saved.Home.PrimaryCTA.Href)
	assert.Equal(t, "#events", saved.Home.SecondaryCTA.Href, "fragment links pass through")
}

func TestSiteContentService_SaveFallsBackOnMojibake(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	doc := service.DefaultSiteContent()
	doc.Home.HeroTitle = "ÐŸÑ€Ð¸Ð²ÐµÑ‚" // "Привет" decoded as Latin-1

	saved, err := svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultSiteContent().Home.HeroTitle, saved.Home.HeroTitle)

	// Properly encoded Cyrillic is fine.
	doc.Home.HeroTitle = "Привет"
	saved, err = svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Привет", saved.Home.HeroTitle)
}

func TestSiteContentService_SaveTruncatesLongText(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	doc := service.DefaultSiteContent()
	doc.Home.HeroSubtitle = strings.Repeat("a", 5000)

	saved, err := svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)
	assert.Len(t, []rune(saved.Home.HeroSubtitle), 4000)
}

func TestSiteContentService_SaveNormalizesFeatureCards(t *testing.T) {
	svc := service.NewSiteContentService(memory.NewSiteContentRepository())

	doc := service.DefaultSiteContent()
	doc.Home.Features = nil
	for i := 0; i < 10; i++ {
		doc.Home.Features = append(doc.Home.Features, domain.FeatureCard{
			Title: fmt.Sprintf("Card %d", i),
		})
	}
	// Both-empty cards are dropped before the cap is applied.
	doc.Home.Features = append([]domain.FeatureCard{{ID: "empty"}}, doc.Home.Features...)

	saved, err := svc.Save(context.Background(), doc, ownerID)
	require.NoError(t, err)
	require.Len(t, saved.Home.Features, domain.MaxFeatureCards)

	assert.Equal(t, "Card 0", saved.Home.Features[0].Title)
	for _, card := range saved.Home.Features {
		assert.NotEmpty(t, card.ID, "cards without an ID get one assigned")
		assert.NotEqual(t, "empty", card.ID)
	}
}

func TestSiteContentService_SaveStampsEditor(t *testing.T) {
	repo := memory.NewSiteContentRepository()
	svc := service.NewSiteContentService(repo)

	before := time.Now()
	saved, err := svc.Save(context.Background(), service.DefaultSiteContent(), aliceID)
	require.NoError(t, err)
	assert.Equal(t, aliceID, saved.UpdatedBy)
	assert.False(t, saved.UpdatedAt.Before(before))

	// Get re-normalizes but keeps the stored stamps.
	got := svc.Get(context.Background())
	assert.Equal(t, aliceID, got.UpdatedBy)
	assert.Equal(t, saved.UpdatedAt, got.UpdatedAt)
}
