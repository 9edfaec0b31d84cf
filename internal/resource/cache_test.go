package resource_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("QueryCache", func() {
	var (
		cache *resource.QueryCache
		ctx   context.Context
		scope internal.Scope
	)

	BeforeEach(func() {
		cache = resource.NewQueryCache(quietLogger())
		ctx = context.Background()
		scope = internal.Scope{UserID: 1, OrganisationID: 7}
	})

	Describe("Key", func() {
		It("is canonical regardless of parameter order", func() {
			a := resource.Key("assets", scope, map[string]string{"status": "active", "type": "laptop"})
			b := resource.Key("assets", scope, map[string]string{"type": "laptop", "status": "active"})
			Expect(a).To(Equal(b))
			Expect(a).To(HavePrefix("assets?"))
			Expect(a).To(ContainSubstring("scope=org%3A7"))
		})

		It("separates scopes", func() {
			other := internal.Scope{UserID: 1, OrganisationID: 8}
			Expect(resource.Key("assets", scope, nil)).NotTo(Equal(resource.Key("assets", other, nil)))
		})
	})

	Describe("Fetch", func() {
		It("returns a fresh entry without calling the loader", func() {
			key := resource.Key("assets", scope, nil)
			cache.Set(key, "cached")

			v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
				Fail("loader must not run")
				return nil, nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("cached"))
		})

		It("invokes the loader once for concurrent callers of one key", func() {
			key := resource.Key("assets", scope, nil)
			var calls atomic.Int32
			release := make(chan struct{})

			var wg sync.WaitGroup
			results := make([]any, 8)
			for i := range results {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
						calls.Add(1)
						<-release
						return "rows", nil
					})
					Expect(err).NotTo(HaveOccurred())
					results[i] = v
				}()
			}

			Eventually(calls.Load).Should(Equal(int32(1)))
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			Expect(calls.Load()).To(Equal(int32(1)))
			for _, r := range results {
				Expect(r).To(Equal("rows"))
			}
		})

		It("leaves no entry when the caller's context is cancelled", func() {
			key := resource.Key("assets", scope, nil)
			cctx, cancel := context.WithCancel(ctx)
			finished := make(chan struct{})

			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()

			_, err := cache.Fetch(cctx, key, func(lctx context.Context) (any, error) {
				defer close(finished)
				<-lctx.Done()
				return "late", nil
			})
			Expect(err).To(MatchError(context.Canceled))

			Eventually(finished).Should(BeClosed())
			Consistently(func() bool {
				_, ok := cache.Lookup(key)
				return ok
			}, 50*time.Millisecond).Should(BeFalse())
		})

		It("keeps loading for the other callers when one of them gives up", func() {
			key := resource.Key("helpdesk-tickets", scope, nil)
			cctx, cancel := context.WithCancel(ctx)
			started := make(chan struct{})
			release := make(chan struct{})
			load := func(lctx context.Context) (any, error) {
				select {
				case <-started:
				default:
					close(started)
				}
				select {
				case <-lctx.Done():
					return nil, lctx.Err()
				case <-release:
					return "tickets", nil
				}
			}

			first := make(chan error, 1)
			go func() {
				_, err := cache.Fetch(cctx, key, load)
				first <- err
			}()
			Eventually(started).Should(BeClosed())

			second := make(chan any, 1)
			go func() {
				defer GinkgoRecover()
				v, err := cache.Fetch(ctx, key, load)
				Expect(err).NotTo(HaveOccurred())
				second <- v
			}()
			time.Sleep(20 * time.Millisecond)

			cancel()
			Eventually(first).Should(Receive(MatchError(context.Canceled)))
			Consistently(second, 30*time.Millisecond).ShouldNot(Receive())

			close(release)
			Eventually(second).Should(Receive(Equal("tickets")))

			v, fresh := cache.Get(key)
			Expect(fresh).To(BeTrue())
			Expect(v).To(Equal("tickets"))
		})

		It("stores a result that raced an invalidation as stale", func() {
			key := resource.Key("assets", scope, nil)
			started := make(chan struct{})
			release := make(chan struct{})

			done := make(chan any)
			go func() {
				defer GinkgoRecover()
				v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
					close(started)
					<-release
					return "old rows", nil
				})
				Expect(err).NotTo(HaveOccurred())
				done <- v
			}()

			Eventually(started).Should(BeClosed())
			cache.Invalidate("assets")
			close(release)
			Eventually(done).Should(Receive(Equal("old rows")))

			entry, ok := cache.Lookup(key)
			Expect(ok).To(BeTrue())
			Expect(entry.Stale).To(BeTrue())
			_, fresh := cache.Get(key)
			Expect(fresh).To(BeFalse())
		})

		It("does not store loader errors", func() {
			key := resource.Key("assets", scope, nil)
			_, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
				return nil, internal.ErrNotFound
			})
			Expect(err).To(MatchError(internal.ErrNotFound))
			Expect(cache.Len()).To(BeZero())
		})
	})

	Describe("Invalidate", func() {
		It("marks only keys of the named entity stale", func() {
			assets := resource.Key("assets", scope, map[string]string{"status": "active"})
			bare := "assets"
			archive := resource.Key("assets-archive", scope, nil)
			cache.Set(assets, 1)
			cache.Set(bare, 2)
			cache.Set(archive, 3)

			Expect(cache.Invalidate("assets")).To(Equal(2))

			_, ok := cache.Get(assets)
			Expect(ok).To(BeFalse())
			_, ok = cache.Get(bare)
			Expect(ok).To(BeFalse())
			v, ok := cache.Get(archive)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(3))
		})

		It("makes the next fetch reload", func() {
			key := resource.Key("kb-articles", scope, nil)
			cache.Set(key, "v1")
			cache.Invalidate("kb-articles")

			v, err := resource.FetchAs(ctx, cache, key, func(ctx context.Context) (string, error) {
				return "v2", nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("v2"))
			_, fresh := cache.Get(key)
			Expect(fresh).To(BeTrue())
		})
	})
})
