// Package pipeline runs a single scrape pass: extract candidates,
// score and sort, dedup against the ledger, enrich with detail pages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"woolfeed/config"
	"woolfeed/helpers"
	"woolfeed/internal/ledger"
	"woolfeed/internal/scrape"
	"woolfeed/logger"
	apperrors "woolfeed/pkg/errors"
	"woolfeed/services/cache"
)

// Mode selects how the ledger participates in a run.
type Mode int

const (
	// ModeIncremental emits only posts not yet in the ledger and
	// records what it emits
	ModeIncremental Mode = iota
	// ModeAll emits every candidate and leaves the ledger untouched
	ModeAll
)

const (
	listingCacheKey = "listing_html"
	backoffKey      = "listing_blocked"
	backoffTTL      = 500 * time.Second
)

// Pipeline wires the scrape components together.
type Pipeline struct {
	cfg       config.Config
	cacheSvc  cache.CacheService
	store     ledger.Store
	extractor *scrape.Extractor
	enricher  *scrape.Enricher
	fetch     scrape.FetchFunc
	loc       *time.Location
	log       *logger.Logger
}

// Result is what one run produced, plus the statistics the feed
// renderer embeds in the channel description.
type Result struct {
	Posts        []scrape.Post
	Incremental  bool
	NewCount     int
	TotalTracked int
	LastUpdate   time.Time
	Now          time.Time
}

// New creates a pipeline from the configuration
func New(cfg config.Config, store ledger.Store, cacheSvc cache.CacheService) *Pipeline {
	fetch := func(url string) (io.Reader, error) {
		return helpers.FetchPage(url, cfg.UserAgent)
	}

	return &Pipeline{
		cfg:       cfg,
		cacheSvc:  cacheSvc,
		store:     store,
		extractor: scrape.NewExtractor(cfg.SiteOrigin),
		enricher:  scrape.NewEnricher(fetch),
		fetch:     fetch,
		loc:       cfg.Location(),
		log:       logger.ForPipeline(),
	}
}

// Run executes one scrape pass. Every upstream or parse failure
// degrades to a smaller (possibly empty) result; the returned error is
// always nil today but kept in the signature for the handlers.
// With scored set, posts are quality-filtered and the score is carried
// on each emitted post.
func (p *Pipeline) Run(ctx context.Context, mode Mode, scored bool) (*Result, error) {
	now := time.Now().In(p.loc)
	res := &Result{Now: now, Incremental: mode == ModeIncremental}

	candidates := p.collectCandidates(now, scored)

	emit := candidates
	if mode == ModeIncremental {
		emit = p.applyLedger(ctx, candidates, now, res)
	}

	if p.cfg.FetchDetail && len(emit) > 0 {
		p.enrichAll(ctx, emit)
	}

	if emit == nil {
		emit = []scrape.Post{}
	}
	res.Posts = emit
	return res, nil
}

// Reset clears the dedup ledger; the next incremental run treats every
// candidate as new.
func (p *Pipeline) Reset(ctx context.Context) error {
	return p.store.Reset(ctx)
}

// collectCandidates fetches and parses the listing page, scores and
// sorts the candidates, and caps them at the enrichment limit.
func (p *Pipeline) collectCandidates(now time.Time, scored bool) []scrape.Post {
	body, err := p.fetchListing()
	if err != nil {
		p.log.Warn().Err(err).Msg("listing fetch failed, emitting empty set")
		return nil
	}

	candidates, err := p.extractor.Extract(body, now)
	if err != nil {
		p.log.Warn().Err(apperrors.NewParsing("listing", "bad markup", err)).Msg("listing parse failed, emitting empty set")
		return nil
	}
	p.log.Debug().Int("count", len(candidates)).Msg("extracted candidates")

	if scored {
		kept := candidates[:0]
		for _, c := range candidates {
			rawTime := c.PublishedAt.Format("15:04")
			c.QualityScore = scrape.Score(c.Title, c.Content, c.Category, c.Comments, rawTime, now)
			if c.QualityScore >= p.cfg.QualityThreshold {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})

	if len(candidates) > p.cfg.DetailLimit {
		candidates = candidates[:p.cfg.DetailLimit]
	}
	return candidates
}

// fetchListing returns the listing markup, served from cache when a
// fresh copy exists. A rate-limited upstream response arms a backoff
// marker so subsequent runs skip the fetch until it expires.
func (p *Pipeline) fetchListing() (io.Reader, error) {
	if p.cacheSvc != nil {
		if _, err := p.cacheSvc.Get(backoffKey); err == nil {
			return nil, apperrors.NewRateLimit("listing", backoffTTL)
		}
		if body, err := p.cacheSvc.Get(listingCacheKey); err == nil {
			return bytes.NewReader(body), nil
		}
	}

	r, err := p.fetch(p.cfg.SourceURL)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			if p.cacheSvc != nil {
				if setErr := p.cacheSvc.Set(backoffKey, []byte("1"), backoffTTL); setErr != nil {
					p.log.Debug().Err(setErr).Msg("failed to arm fetch backoff")
				}
			}
			return nil, apperrors.New(apperrors.ErrorTypeRateLimit, "listing", "upstream throttling", err)
		}
		return nil, apperrors.NewNetwork("listing", "fetch failed", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewNetwork("listing", "read failed", err)
	}
	if p.cacheSvc != nil && p.cfg.ListingCacheTTL > 0 {
		if err := p.cacheSvc.Set(listingCacheKey, body, p.cfg.ListingCacheTTL); err != nil {
			p.log.Debug().Err(err).Msg("failed to cache listing")
		}
	}
	return bytes.NewReader(body), nil
}

// applyLedger filters the candidates down to the unseen ones and
// records them. When nothing is new, it either falls back to the most
// recent candidates without touching the ledger, or emits nothing,
// depending on configuration.
func (p *Pipeline) applyLedger(ctx context.Context, candidates []scrape.Post, now time.Time, res *Result) []scrape.Post {
	snap, err := p.store.Load(ctx)
	if err != nil {
		p.log.Warn().Err(apperrors.NewStorage("ledger", "load failed", err)).Msg("treating all candidates as new")
		snap = ledger.NewSnapshot(nil, now)
	}
	res.LastUpdate = snap.LastUpdate()

	var fresh []scrape.Post
	for _, c := range candidates {
		if !snap.Has(c.Link) {
			fresh = append(fresh, c)
		}
	}
	res.NewCount = len(fresh)

	if len(fresh) == 0 {
		res.TotalTracked = snap.Len()
		if !p.cfg.FallbackRecent {
			return nil
		}
		if len(candidates) > fallbackCount {
			candidates = candidates[:fallbackCount]
		}
		return candidates
	}

	for _, c := range fresh {
		snap.Add(c.Link)
	}
	snap.Truncate(p.cfg.LedgerMaxEntries)
	snap.Touch(now)
	res.TotalTracked = snap.Len()

	if err := p.store.Save(ctx, snap); err != nil {
		p.log.Warn().Err(apperrors.NewStorage("ledger", "save failed", err)).Msg("ledger write skipped")
	}
	return fresh
}

// fallbackCount caps the no-new-posts fallback emission
const fallbackCount = 20

// enrichAll fetches every post's detail page concurrently and fills in
// content, images and comment links. A failed fetch downgrades only
// that post to its listing excerpt.
func (p *Pipeline) enrichAll(ctx context.Context, posts []scrape.Post) {
	g, _ := errgroup.WithContext(ctx)
	for i := range posts {
		i := i
		g.Go(func() error {
			if d := p.enricher.Enrich(posts[i].Link); d != nil {
				posts[i].Content = d.Content
				posts[i].Images = d.Images
				posts[i].CommentLinks = d.CommentLinks
			}
			return nil
		})
	}
	g.Wait()
}
