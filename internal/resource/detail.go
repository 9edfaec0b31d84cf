package resource

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type TabState string

const (
	TabReady         TabState = "ready"
	TabFailed        TabState = "failed"
	TabUnimplemented TabState = "unimplemented"
)

const ComingSoon = "coming soon"

type Tab struct {
	Name    string   `json:"name"`
	State   TabState `json:"state"`
	Items   any      `json:"items,omitempty"`
	Message string   `json:"message,omitempty"`
}

type Detail[T any] struct {
	Entity  T        `json:"entity"`
	Tabs    []Tab    `json:"tabs"`
	Actions []string `json:"actions"`
}

// Child loads one related collection of a detail view.
type Child struct {
	Name string
	Load func(ctx context.Context) (any, error)
}

type childResult struct {
	items any
	err   error
}

// LoadDetail loads the entity and every child concurrently. A child that
// fails or exceeds childTimeout marks only its own tab failed; an entity
// error fails the whole detail. Placeholders become unimplemented tabs.
func LoadDetail[T any](ctx context.Context, childTimeout time.Duration, load func(ctx context.Context) (T, error), children []Child, placeholders []string) (*Detail[T], error) {
	if childTimeout <= 0 {
		childTimeout = 3 * time.Second
	}

	g, gctx := errgroup.WithContext(ctx)
	detail := &Detail[T]{Tabs: make([]Tab, len(children), len(children)+len(placeholders)), Actions: []string{}}

	g.Go(func() error {
		entity, err := load(gctx)
		if err != nil {
			return err
		}
		detail.Entity = entity
		return nil
	})

	for i, child := range children {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, childTimeout)
			defer cancel()

			done := make(chan childResult, 1)
			go func() {
				items, err := child.Load(cctx)
				done <- childResult{items: items, err: err}
			}()

			var res childResult
			select {
			case res = <-done:
			case <-cctx.Done():
				res.err = cctx.Err()
			}
			if res.err != nil {
				detail.Tabs[i] = Tab{Name: child.Name, State: TabFailed, Message: res.err.Error()}
				return nil
			}
			detail.Tabs[i] = Tab{Name: child.Name, State: TabReady, Items: res.items}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, name := range placeholders {
		detail.Tabs = append(detail.Tabs, Tab{Name: name, State: TabUnimplemented, Message: ComingSoon})
	}
	return detail, nil
}
