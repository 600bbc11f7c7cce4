package strategy

import (
	"context"
	"net/url"
	"strings"
	"sync"

	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eurora-ai/eurora-core/pkg/activity"
	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
)

// articleParser is the shared go-shiori/go-readability parser, mirroring
// the teacher's api/pkg/controller/knowledge/readability package's
// NewParser()/Parse(reader, url) usage.
var articleParser = readability.NewParser()

// browserProcessNames are the known browser executable/bundle names the
// BrowserStrategy matches (spec §4.3: "Firefox, Chrome, Chromium, Brave,
// Edge, Librewolf, Safari variants, plus macOS bundle ids").
var browserProcessNames = map[string]bool{
	"firefox":                            true,
	"firefox.exe":                        true,
	"chrome":                             true,
	"google chrome":                      true,
	"chrome.exe":                         true,
	"chromium":                           true,
	"chromium-browser":                   true,
	"brave":                              true,
	"brave.exe":                          true,
	"msedge":                             true,
	"msedge.exe":                         true,
	"microsoft edge":                     true,
	"librewolf":                          true,
	"safari":                             true,
	"com.apple.safari":                   true,
	"com.apple.safaritechnologypreview":  true,
}

// IsBrowserProcess reports whether processName (case-insensitive) is a
// known browser executable or bundle id.
func IsBrowserProcess(processName string) bool {
	return browserProcessNames[strings.ToLower(processName)]
}

// BridgeSession is the strategy-facing view of a Browser Bridge session
// (spec §4.2, §9 "a strategy holds a handle to the bridge"). Decoupling
// this from the concrete gRPC transport keeps the strategy package free of
// a dependency on the collector's network wiring; pkg/bridgegrpc's Session
// type implements it.
type BridgeSession interface {
	// Recv blocks for the next browser state frame. It returns an error
	// once the session has ended (end-of-stream or transport failure) or
	// ctx is done; an ended session does not resume, so every later call
	// also returns an error.
	Recv(ctx context.Context) (nativebridge.StateResponseFrame, error)
	// RequestState asks the browser to push its current state.
	RequestState(ctx context.Context) error
	Close() error
}

// BridgeOpener opens a BridgeSession for a newly selected BrowserStrategy
// instance. Set via SetBridgeOpener by the process composing the collector
// with a live gRPC bridge server; nil means "no bridge available", in which
// case BrowserStrategy degrades to emitting nothing (never crashes).
type BridgeOpener func(ctx context.Context, pc ProcessContext) (BridgeSession, error)

var (
	bridgeOpenerMu sync.RWMutex
	bridgeOpener   BridgeOpener
)

// SetBridgeOpener installs the process-wide hook BrowserStrategy uses to
// open a bridge session (spec §9: the bridge is owned by the collector's
// wiring, not constructed by the strategy itself).
func SetBridgeOpener(opener BridgeOpener) {
	bridgeOpenerMu.Lock()
	defer bridgeOpenerMu.Unlock()
	bridgeOpener = opener
}

func currentBridgeOpener() BridgeOpener {
	bridgeOpenerMu.RLock()
	defer bridgeOpenerMu.RUnlock()
	return bridgeOpener
}

type browserStrategyFactory struct{}

func newBrowserStrategyFactory() Factory { return &browserStrategyFactory{} }

func (f *browserStrategyFactory) Name() string        { return "browser" }
func (f *browserStrategyFactory) ID() string          { return "strategy.browser" }
func (f *browserStrategyFactory) Description() string { return "extracts assets and snapshots from a browser via the native-messaging bridge" }
func (f *browserStrategyFactory) Category() Category  { return CategoryBrowser }
func (f *browserStrategyFactory) Priority() int { return 50 }

func (f *browserStrategyFactory) SupportsProcess(ctx ProcessContext) int {
	if IsBrowserProcess(ctx.ProcessName) {
		return 2
	}
	return 0
}

func (f *browserStrategyFactory) New(ctx ProcessContext) Strategy {
	return &browserStrategy{ctx: ctx}
}

// browserStrategy opens a Browser Bridge session on StartTracking and
// translates each incoming browser state frame into an ActivityAsset of the
// matching variant, emitting NewActivity the first time and Assets/Snapshots
// reports thereafter (spec §4.3).
type browserStrategy struct {
	mu        sync.Mutex
	ctx       ProcessContext
	session   BridgeSession
	haveFirst bool
	stopped   bool
}

// HandleProcessChange reports whether newWindow is also a browser; the
// bridge session and its bound process can migrate between browser
// executables without teardown (spec §1 "strategy lifecycles whose identity
// changes mid-stream as focus migrates").
func (s *browserStrategy) HandleProcessChange(ctx ProcessContext) bool {
	return IsBrowserProcess(ctx.ProcessName)
}

func (s *browserStrategy) StartTracking(ctx context.Context, reports chan<- activity.Report) error {
	opener := currentBridgeOpener()
	if opener == nil {
		log.Warn().Msg("strategy/browser: no bridge opener configured, browser strategy is inert")
		return nil
	}
	session, err := opener(ctx, s.ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	go s.readLoop(ctx, reports)
	return nil
}

func (s *browserStrategy) readLoop(ctx context.Context, reports chan<- activity.Report) {
	for {
		s.mu.Lock()
		session := s.session
		stopped := s.stopped
		s.mu.Unlock()
		if stopped || session == nil {
			return
		}

		frame, err := session.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("strategy/browser: bridge read failed")
			return
		}

		asset, snapshot := translateState(frame)
		s.mu.Lock()
		first := !s.haveFirst
		s.haveFirst = true
		s.mu.Unlock()

		var report activity.Report
		if first {
			act := activity.NewActivity(uuid.NewString(), displayNameFromState(frame, s.ctx), s.ctx.ProcessName, s.ctx.Icon)
			if asset != nil {
				act.Assets = []activity.Asset{asset}
			}
			if snapshot != nil {
				act.Snapshots = []activity.Snapshot{snapshot}
			}
			report = activity.NewActivityReport(act)
		} else if snapshot != nil {
			report = activity.SnapshotsReport([]activity.Snapshot{snapshot})
		} else if asset != nil {
			report = activity.AssetsReport([]activity.Asset{asset})
		} else {
			continue
		}

		select {
		case reports <- report:
		case <-ctx.Done():
			return
		}
	}
}

func (s *browserStrategy) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	if s.session != nil {
		return s.session.Close()
	}
	return nil
}

func displayNameFromState(frame nativebridge.StateResponseFrame, ctx ProcessContext) string {
	switch frame.Kind {
	case nativebridge.StateYoutube:
		if frame.Youtube != nil && frame.Youtube.Title != "" {
			return frame.Youtube.Title
		}
	case nativebridge.StateArticle:
		if frame.Article != nil && frame.Article.Title != "" {
			return frame.Article.Title
		}
	case nativebridge.StateTwitter:
		return "Twitter/X"
	}
	return displayName(ctx)
}

// translateState converts one decoded browser state frame into the matching
// ActivityAsset/ActivitySnapshot pair (spec §4.3: "translates to an
// ActivityAsset of the matching variant (Youtube/Article/Twitter/PDF ->
// Default) and sends a NewActivity or Assets report"; snapshots are
// produced for incremental state).
func translateState(frame nativebridge.StateResponseFrame) (activity.Asset, activity.Snapshot) {
	switch frame.Kind {
	case nativebridge.StateYoutube:
		return translateYoutube(frame.Youtube)
	case nativebridge.StateArticle:
		return translateArticle(frame.Article)
	case nativebridge.StateTwitter:
		return translateTwitter(frame.Twitter)
	case nativebridge.StatePdf:
		return translatePdf(frame.Pdf), nil
	default:
		return nil, nil
	}
}

func translateYoutube(st *nativebridge.YoutubeState) (activity.Asset, activity.Snapshot) {
	if st == nil {
		return nil, nil
	}
	lines := make([]activity.TranscriptLine, 0, len(st.Transcript))
	for _, l := range st.Transcript {
		lines = append(lines, activity.TranscriptLine{Text: l.Text, Start: l.Start, Duration: l.Duration})
	}
	asset := &activity.YoutubeAsset{
		ID:          uuid.NewString(),
		URL:         st.URL,
		Title:       st.Title,
		Transcript:  lines,
		CurrentTime: st.CurrentTime,
	}
	snap := &activity.YoutubeSnapshot{
		IDField:     uuid.NewString(),
		CurrentTime: st.CurrentTime,
	}
	return asset, snap
}

func translateArticle(st *nativebridge.ArticleState) (activity.Asset, activity.Snapshot) {
	if st == nil {
		return nil, nil
	}
	asset := &activity.ArticleAsset{
		ID:       uuid.NewString(),
		URL:      st.URL,
		Title:    st.Title,
		SiteName: st.SiteName,
		Excerpt:  st.Excerpt,
	}
	if st.Content != "" {
		parsedURL, _ := url.Parse(st.URL)
		if article, err := articleParser.Parse(strings.NewReader(st.Content), parsedURL); err == nil {
			asset.SiteName = firstNonEmpty(asset.SiteName, article.SiteName)
			asset.Byline = article.Byline
			asset.Excerpt = firstNonEmpty(asset.Excerpt, article.Excerpt)
			asset.TextContent = firstNonEmpty(st.TextContent, article.TextContent)
			if asset.Title == "" {
				asset.Title = article.Title
			}
		} else {
			log.Debug().Err(err).Msg("strategy/browser: readability extraction failed, using raw capture")
			asset.TextContent = st.TextContent
		}
	} else {
		asset.TextContent = st.TextContent
	}

	var snap activity.Snapshot
	if st.Highlight != "" || st.SelectedText != "" {
		snap = &activity.ArticleSnapshot{
			IDField:       uuid.NewString(),
			URL:           st.URL,
			Title:         asset.Title,
			Highlight:     st.Highlight,
			SelectionText: st.SelectedText,
		}
	}
	return asset, snap
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func translateTwitter(st *nativebridge.TwitterState) (activity.Asset, activity.Snapshot) {
	if st == nil {
		return nil, nil
	}
	tweets := make([]activity.Tweet, 0, len(st.Tweets))
	for _, t := range st.Tweets {
		tweets = append(tweets, activity.Tweet{Text: t.Text, Author: t.Author, Timestamp: t.Timestamp})
	}
	asset := &activity.TwitterAsset{ID: uuid.NewString(), URL: st.URL, Title: "Twitter/X", Tweets: tweets}
	snap := &activity.TwitterSnapshot{
		IDField:     uuid.NewString(),
		Tweets:      tweets,
		Interaction: activity.InteractionType(st.InteractionType),
		Target:      st.Target,
	}
	return asset, snap
}

func translatePdf(st *nativebridge.PdfState) activity.Asset {
	if st == nil {
		return nil
	}
	return activity.NewDefaultAsset(uuid.NewString(), st.Title, nil, nil)
}
