// Package browse drives the price-comparison site with headless Chrome and
// harvests raw listing bundles.
package browse

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/fuel"
)

// Config controls the behavior of the browsing sessions.
type Config struct {
	BaseURL           string
	UserAgent         string
	NavigationTimeout time.Duration
	ZoomOutSteps      int
	ZoomSettle        time.Duration
}

// Factory owns the shared browser allocator and opens one independent
// session per city task.
type Factory struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewFactory creates a session factory backed by chromedp.
func NewFactory(cfg Config, logger *zap.Logger) (*Factory, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://petrolspy.com.au"
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 2 * time.Minute
	}
	if cfg.ZoomOutSteps <= 0 {
		cfg.ZoomOutSteps = 5
	}
	if cfg.ZoomSettle <= 0 {
		cfg.ZoomSettle = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Factory{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// Close cancels the allocator context.
func (f *Factory) Close() {
	f.allocCancel()
}

// NewSession starts a fresh browser context. Startup failures surface here
// so the orchestrator can skip the city without touching other cities.
func (f *Factory) NewSession(ctx context.Context) (fuel.Session, error) {
	taskCtx, taskCancel := chromedp.NewContext(f.allocator)

	s := &session{ctx: taskCtx, cancel: taskCancel, cfg: f.cfg}
	if err := s.run(ctx, s.networkSetupAction()); err != nil {
		taskCancel()
		return nil, fmt.Errorf("start browser session: %w", err)
	}
	return s, nil
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
}

// NavigateTo loads the map page anchored at the city's location descriptor.
func (s *session) NavigateTo(ctx context.Context, locationDescriptor string) error {
	url := fmt.Sprintf("%s/map/latlng/%s", s.cfg.BaseURL, locationDescriptor)
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// SelectFuelType picks the fuel option from the dropdown and zooms the map
// out so the listing covers the metro area.
func (s *session) SelectFuelType(ctx context.Context, fuelSiteID string) error {
	actions := []chromedp.Action{
		chromedp.WaitVisible("#fuel-dropdown", chromedp.ByQuery),
		chromedp.Click("#fuel-dropdown", chromedp.ByQuery),
		chromedp.WaitVisible(".dropDownOptionsDiv", chromedp.ByQuery),
		chromedp.Click(fmt.Sprintf("#option_%s", fuelSiteID), chromedp.ByQuery),
	}
	for i := 0; i < s.cfg.ZoomOutSteps; i++ {
		actions = append(actions, chromedp.Click(".maplibregl-ctrl-zoom-out", chromedp.ByQuery))
		if i < s.cfg.ZoomOutSteps-1 {
			actions = append(actions, chromedp.Sleep(s.cfg.ZoomSettle))
		}
	}
	if err := s.run(ctx, actions...); err != nil {
		return fmt.Errorf("select fuel type %s: %w", fuelSiteID, err)
	}
	return nil
}

// SwitchToListView flips the map into its station list rendering.
func (s *session) SwitchToListView(ctx context.Context) error {
	err := s.run(ctx,
		chromedp.Click("#list-view", chromedp.ByQuery),
		chromedp.WaitVisible(".stations-list-item", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("switch to list view: %w", err)
	}
	return nil
}

// listingsJS collects each rendered listing row into one raw bundle: the
// price column text and description block joined by a newline, the styled
// suburb sub-element when present, and the logo src attribute.
const listingsJS = `Array.from(document.querySelectorAll('.stations-list-item')).map((item) => {
	const first = item.querySelector('.stations-item-column-first');
	const middle = item.querySelector('.stations-item-column-middle');
	const suburb = middle ? middle.querySelector('b:nth-of-type(2)') : null;
	const logo = first ? first.querySelector('img') : null;
	return {
		text: (first ? first.textContent : '') + '\n' + (middle ? middle.textContent : ''),
		suburb: suburb ? suburb.textContent.trim() : '',
		logo_src: logo ? logo.getAttribute('src') || '' : '',
	};
})`

// ListStations harvests the rendered listing rows.
func (s *session) ListStations(ctx context.Context) ([]fuel.RawListing, error) {
	var listings []fuel.RawListing
	if err := s.run(ctx, chromedp.Evaluate(listingsJS, &listings)); err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return listings, nil
}

// Close tears down the browser context.
func (s *session) Close() error {
	s.cancel()
	return nil
}

// run executes actions on the session's browser context, bounded by the
// navigation timeout and the caller's context.
func (s *session) run(ctx context.Context, actions ...chromedp.Action) error {
	timed, cancel := context.WithTimeout(s.ctx, s.cfg.NavigationTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(timed, actions...)
}

func (s *session) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if s.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(s.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}
