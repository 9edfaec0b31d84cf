package itam_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/itam"
	"github.com/frahmantamala/helpdesk-console/internal/itam/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("ITAMHandler", func() {
	var (
		db       *gorm.DB
		handler  *itam.Handler
		recorder *httptest.ResponseRecorder
		user     *internal.SessionUser
	)

	createAsset := func() int64 {
		rec := httptest.NewRecorder()
		req := testhelper.Request(http.MethodPost, "/api/v1/itam/assets", map[string]any{
			"name": "ThinkPad X1",
			"type": "laptop",
		}, user, nil)
		handler.CreateITAMAsset(rec, req)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var body itam.Asset
		Expect(testhelper.Decode(rec, &body)).To(Succeed())
		return body.ID
	}

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(models...)
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		service := itam.NewService(postgres.NewITAMRepository(db, resource.SoftDelete), testhelper.Deps(lg), lg)
		handler = itam.NewHandler(transport.NewBaseHandler(lg), service)
		recorder = httptest.NewRecorder()
		user = testhelper.User(7, 3)
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("assigns through the action route", func() {
		id := createAsset()
		req := testhelper.Request(http.MethodPost, "/api/v1/itam/assets/1/actions/assign", map[string]any{
			"assigned_to": 40,
		}, user, map[string]string{"id": strconv.FormatInt(id, 10), "action": "assign"})

		handler.ActITAMAsset(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusOK))
		var body itam.Asset
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body.Status).To(Equal(itam.StatusAssigned))
	})

	It("answers an invalid transition with a validation error", func() {
		id := createAsset()
		req := testhelper.Request(http.MethodPost, "/api/v1/itam/assets/1/actions/return", nil, user,
			map[string]string{"id": strconv.FormatInt(id, 10), "action": "return"})

		handler.ActITAMAsset(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		var body map[string]map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("INVALID_TRANSITION"))
	})

	It("returns the detail view", func() {
		id := createAsset()
		req := testhelper.Request(http.MethodGet, "/api/v1/itam/assets/1/detail", nil, user,
			map[string]string{"id": strconv.FormatInt(id, 10)})

		handler.GetITAMAssetDetail(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusOK))
		var body map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["actions"]).To(ConsistOf("assign", "send_to_repair", "retire"))
	})

	It("lists with a filter", func() {
		createAsset()
		req := testhelper.Request(http.MethodGet, "/api/v1/itam/assets?status=retired", nil, user, nil)

		handler.ListITAMAssets(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusOK))
		var body map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["empty_state"]).To(Equal(string(resource.EmptyNoMatches)))
	})
})
