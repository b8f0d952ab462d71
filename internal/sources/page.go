package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"rotation/internal/config"
	"rotation/internal/textnorm"
)

// pageProducer scrapes an HTML listing page with configured CSS selectors.
// The item selector scopes one release; artist, title, and genre selectors
// are evaluated inside each item. When the artist and title selectors are the
// same element, its text is split like a feed entry title.
type pageProducer struct {
	src       config.Source
	client    *http.Client
	userAgent string
}

func newPageProducer(src config.Source, client *http.Client, userAgent string) *pageProducer {
	return &pageProducer{src: src, client: client, userAgent: userAgent}
}

func (p *pageProducer) Name() string { return p.src.Name }

func (p *pageProducer) Produce(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", p.src.URL, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", p.src.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.src.URL, err)
	}

	now := time.Now()
	var candidates []Candidate
	doc.Find(p.src.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		artist, title, ok := p.extractNames(item)
		if !ok {
			return
		}

		tags := append([]string(nil), p.src.Genres...)
		if p.src.GenreSelector != "" {
			item.Find(p.src.GenreSelector).Each(func(_ int, tag *goquery.Selection) {
				tags = append(tags, tag.Text())
			})
		}

		link := p.src.URL
		if href, exists := item.Find("a").First().Attr("href"); exists {
			link = href
		}

		candidates = append(candidates, Candidate{
			Artist: artist,
			Title:  title,
			URL:    link,
			Genres: textnorm.NormalizeTags(tags),
		})
	})

	return stampCandidates(candidates, p.src, now), nil
}

func (p *pageProducer) extractNames(item *goquery.Selection) (artist, title string, ok bool) {
	if p.src.ArtistSelector == p.src.TitleSelector {
		combined := strings.TrimSpace(item.Find(p.src.TitleSelector).First().Text())
		return splitEntryTitle(combined, p.src.Separator)
	}

	artist = strings.TrimSpace(item.Find(p.src.ArtistSelector).First().Text())
	title = strings.TrimSpace(item.Find(p.src.TitleSelector).First().Text())
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}
