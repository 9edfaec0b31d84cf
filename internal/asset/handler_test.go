package asset_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/asset"
	"github.com/frahmantamala/helpdesk-console/internal/asset/postgres"
	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("AssetHandler", func() {
	var (
		db       *gorm.DB
		handler  *asset.Handler
		recorder *httptest.ResponseRecorder
		user     *internal.SessionUser
	)

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&assetDatamodel.Asset{})
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		deps := testhelper.Deps(lg)
		service := asset.NewService(postgres.NewAssetRepository(db, resource.SoftDelete), nil, deps, lg)
		handler = asset.NewHandler(transport.NewBaseHandler(lg), service)
		recorder = httptest.NewRecorder()
		user = testhelper.User(1, 10)
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("creates an asset from form text", func() {
		req := testhelper.Request(http.MethodPost, "/api/v1/assets", map[string]any{
			"name":           "Dell Laptop",
			"purchase_date":  "2024-01-15",
			"purchase_price": "1500.00",
			"salvage_value":  nil,
		}, user, nil)

		handler.CreateAsset(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusCreated))
		var body map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["status"]).To(Equal("active"))
		Expect(body["current_value"]).To(Equal(1500.0))
		Expect(body["salvage_value"]).To(BeNil())
	})

	It("returns field errors for an invalid form", func() {
		req := testhelper.Request(http.MethodPost, "/api/v1/assets", map[string]any{
			"purchase_price": "abc",
		}, user, nil)

		handler.CreateAsset(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		var body map[string]map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("VALIDATION_FAILED"))
	})

	It("rejects a malformed body", func() {
		req := testhelper.Request(http.MethodPost, "/api/v1/assets", "{not json", user, nil)
		handler.CreateAsset(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusBadRequest))
	})

	It("requires a session", func() {
		req := testhelper.Request(http.MethodGet, "/api/v1/assets", nil, nil, nil)
		handler.ListAssets(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})

	It("answers 403 for a create without organisation or tenant", func() {
		req := testhelper.Request(http.MethodPost, "/api/v1/assets", map[string]any{
			"name": "Dell Laptop", "purchase_date": "2024-01-15", "purchase_price": "1500.00",
		}, &internal.SessionUser{ID: 2}, nil)

		handler.CreateAsset(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 404 for an unknown asset", func() {
		req := testhelper.Request(http.MethodGet, "/api/v1/assets/42", nil, user, map[string]string{"id": "42"})
		handler.GetAsset(recorder, req)
		Expect(recorder.Code).To(Equal(http.StatusNotFound))
	})

	It("answers a delete with a pending confirmation", func() {
		create := testhelper.Request(http.MethodPost, "/api/v1/assets", map[string]any{
			"name": "Dell Laptop", "purchase_date": "2024-01-15", "purchase_price": "1500.00",
		}, user, nil)
		handler.CreateAsset(recorder, create)
		var created map[string]any
		Expect(testhelper.Decode(recorder, &created)).To(Succeed())

		recorder = httptest.NewRecorder()
		req := testhelper.Request(http.MethodDelete, "/api/v1/assets/1", nil, user, map[string]string{"id": "1"})
		handler.DeleteAsset(recorder, req)

		Expect(recorder.Code).To(Equal(http.StatusAccepted))
		var body map[string]any
		Expect(testhelper.Decode(recorder, &body)).To(Succeed())
		Expect(body["state"]).To(Equal("confirm_pending"))
		Expect(body["confirmation_id"]).NotTo(BeEmpty())
	})
})
