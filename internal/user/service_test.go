package user_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
	"github.com/frahmantamala/helpdesk-console/internal/user"
	"github.com/frahmantamala/helpdesk-console/internal/user/postgres"
)

var _ = Describe("Handler", func() {
	var (
		db      *gorm.DB
		handler *user.Handler
	)

	seed := func(name string, org int64, active bool) int64 {
		u := userDatamodel.User{
			Email:          name + "@example.com",
			Name:           name,
			PasswordHash:   "x",
			IsActive:       true,
			OrganisationID: testhelper.Int64(org),
			TenantID:       testhelper.Int64(1),
		}
		Expect(db.Create(&u).Error).To(Succeed())
		if !active {
			Expect(db.Model(&u).Update("is_active", false).Error).To(Succeed())
		}
		return u.ID
	}

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&userDatamodel.User{})
		Expect(err).NotTo(HaveOccurred())
		lg := testhelper.QuietLogger()
		handler = user.NewHandler(transport.NewBaseHandler(lg), user.NewService(postgres.NewRepository(db), lg))
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("lists active users of the organisation by name", func() {
		seed("zoe", 2, true)
		me := seed("adam", 2, true)
		seed("mia", 2, false)
		seed("other", 5, true)

		rec := httptest.NewRecorder()
		handler.ListUsers(rec, testhelper.Request(http.MethodGet, "/api/v1/users", nil, testhelper.User(me, 2), nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body []user.User
		Expect(testhelper.Decode(rec, &body)).To(Succeed())
		Expect(body).To(HaveLen(2))
		Expect(body[0].Name).To(Equal("adam"))
		Expect(body[1].Name).To(Equal("zoe"))
	})

	It("returns the caller", func() {
		me := seed("adam", 2, true)
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, testhelper.Request(http.MethodGet, "/api/v1/users/me", nil, testhelper.User(me, 2), nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body user.User
		Expect(testhelper.Decode(rec, &body)).To(Succeed())
		Expect(body.Email).To(Equal("adam@example.com"))
	})

	It("requires a session", func() {
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, testhelper.Request(http.MethodGet, "/api/v1/users/me", nil, nil, nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
