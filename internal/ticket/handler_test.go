package ticket_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	ticketDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/ticket/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("TicketHandler", func() {
	var (
		db       *gorm.DB
		handler  *ticket.Handler
		recorder *httptest.ResponseRecorder
		user     *internal.SessionUser
	)

	createTicket := func(title string) int64 {
		rec := httptest.NewRecorder()
		handler.CreateTicket(rec, testhelper.Request(http.MethodPost, "/api/v1/tickets", map[string]any{"title": title}, user, nil))
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var body ticket.Ticket
		Expect(testhelper.Decode(rec, &body)).To(Succeed())
		return body.ID
	}

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&ticketDatamodel.Ticket{})
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		service := ticket.NewService(postgres.NewTicketRepository(db, resource.HardDelete), nil, testhelper.Deps(lg), lg)
		handler = ticket.NewHandler(transport.NewBaseHandler(lg), service)
		recorder = httptest.NewRecorder()
		user = testhelper.User(2, 8)
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("applies a bulk status update", func() {
		a, b := createTicket("A"), createTicket("B")
		req := testhelper.Request(http.MethodPost, "/api/v1/tickets/bulk", map[string]any{
			"ids":   []int64{a, b},
			"field": "status",
			"value": "closed",
		}, user, nil)

		handler.BulkUpdateTickets(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusOK))
		var body resource.BulkResult
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body.Updated).To(Equal(int64(2)))
		Expect(body.IDs).To(ConsistOf(a, b))
		Expect(body.Selection).To(BeEmpty())
	})

	It("rejects a bulk update of an unknown field", func() {
		a := createTicket("A")
		req := testhelper.Request(http.MethodPost, "/api/v1/tickets/bulk", map[string]any{
			"ids":   []int64{a},
			"field": "title",
			"value": "x",
		}, user, nil)

		handler.BulkUpdateTickets(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusBadRequest))
	})

	It("opens a confirmation for bulk delete", func() {
		a, b := createTicket("A"), createTicket("B")
		req := testhelper.Request(http.MethodPost, "/api/v1/tickets/bulk/delete", map[string]any{
			"ids": []int64{a, b},
		}, user, nil)

		handler.BulkDeleteTickets(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusAccepted))
		var body map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["confirmation_id"]).NotTo(BeEmpty())
		Expect(body["count"]).To(Equal(2.0))
	})

	It("refuses writes without a session", func() {
		req := testhelper.Request(http.MethodPost, "/api/v1/tickets", map[string]any{"title": "x"}, nil, nil)
		handler.CreateTicket(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})
})
