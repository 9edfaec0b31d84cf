package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
	"github.com/frahmantamala/helpdesk-console/internal/realtime"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("Hub", func() {
	var (
		hub    *realtime.Hub
		server *httptest.Server
		bus    *events.EventBus
		detach func()
	)

	// The test server stands in for the auth middleware: ?org=N picks the
	// session organisation, 0 leaves the scope unresolved.
	BeforeEach(func() {
		lg := testhelper.QuietLogger()
		hub = realtime.NewHub(transport.NewBaseHandler(lg), internal.RealtimeConfig{PingInterval: time.Second, SendBuffer: 4}, nil)
		bus = events.NewEventBus(lg)
		detach = hub.Attach(bus)

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			org, _ := strconv.ParseInt(r.URL.Query().Get("org"), 10, 64)
			u := &internal.SessionUser{ID: 1, Email: "agent@example.com"}
			if org > 0 {
				u.OrganisationID = testhelper.Int64(org)
			}
			hub.ServeWS(w, r.WithContext(internal.ContextWithUser(r.Context(), u)))
		}))
	})

	AfterEach(func() {
		detach()
		hub.Close()
		server.Close()
	})

	dial := func(org int) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?org=" + strconv.Itoa(org)
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		return conn
	}

	It("pushes invalidations to clients of the changed scope only", func() {
		mine := dial(2)
		defer mine.Close()
		theirs := dial(3)
		defer theirs.Close()
		Eventually(func() int { return hub.Clients("org:2") }).Should(Equal(1))
		Eventually(func() int { return hub.Clients("org:3") }).Should(Equal(1))

		notifier := resource.NewNotifier(nil, bus, testhelper.QuietLogger())
		notifier.Changed(context.Background(), resource.Change{
			Entity:      "helpdesk-tickets",
			Action:      resource.ActionUpdate,
			IDs:         []int64{7},
			Scope:       internal.Scope{UserID: 1, OrganisationID: 2},
			Invalidates: []string{"helpdesk-tickets", "helpdesk-stats"},
		})

		var msg realtime.Message
		Expect(mine.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		Expect(mine.ReadJSON(&msg)).To(Succeed())
		Expect(msg.Type).To(Equal(realtime.MessageInvalidate))
		Expect(msg.Entity).To(Equal("helpdesk-tickets"))
		Expect(msg.IDs).To(Equal([]int64{7}))
		Expect(msg.Keys).To(ConsistOf("helpdesk-tickets", "helpdesk-stats"))

		Expect(theirs.SetReadDeadline(time.Now().Add(200 * time.Millisecond))).To(Succeed())
		_, _, err := theirs.ReadMessage()
		Expect(err).To(HaveOccurred())
	})

	It("drops a client that stops reading", func() {
		conn := dial(2)
		defer conn.Close()
		Eventually(func() int { return hub.Clients("org:2") }).Should(Equal(1))

		ids := make([]int64, 2000)
		for i := range ids {
			ids[i] = int64(1000000 + i)
		}
		for i := 0; i < 20000 && hub.Clients("org:2") > 0; i++ {
			hub.Broadcast("org:2", realtime.Message{Type: realtime.MessageInvalidate, Entity: "kb-articles", IDs: ids})
		}
		Expect(hub.Clients("org:2")).To(BeZero())
	})

	It("unregisters a client that disconnects", func() {
		conn := dial(5)
		Eventually(func() int { return hub.Clients("org:5") }).Should(Equal(1))
		Expect(conn.Close()).To(Succeed())
		Eventually(func() int { return hub.Clients("org:5") }).Should(BeZero())
	})

	It("refuses a session without a scope", func() {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?org=0"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).To(HaveOccurred())
		Expect(resp).NotTo(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})
})
