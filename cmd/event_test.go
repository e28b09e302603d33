package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
)

var _ = Describe("buildEvent", func() {
	It("builds a menu change", func() {
		e, err := buildEvent(events.MenuChanged, eventFlags{MenuID: 7})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.EventType()).To(Equal(events.MenuChanged))
		Expect(e.Payload()).To(Equal(events.MenuChangedData{MenuID: 7, Action: "manual"}))
	})

	It("requires roles for a grant change", func() {
		_, err := buildEvent(events.RoleMenusChanged, eventFlags{})
		Expect(err).To(HaveOccurred())

		e, err := buildEvent(events.RoleMenusChanged, eventFlags{RoleIDs: []int64{2, 3}})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Payload()).To(Equal(events.RoleMenusChangedData{RoleIDs: []int64{2, 3}}))
	})

	It("parses users for a revocation", func() {
		e, err := buildEvent(events.SessionRevoked, eventFlags{Users: []string{"1:admin", "8:ops"}, Reason: "rotated"})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Payload()).To(Equal(events.UsersData{
			Users:  []events.UserRef{{ID: 1, Username: "admin"}, {ID: 8, Username: "ops"}},
			Reason: "rotated",
		}))
	})

	DescribeTable("rejects malformed users",
		func(value string) {
			_, err := buildEvent(events.UserRolesChanged, eventFlags{Users: []string{value}})
			Expect(err).To(MatchError(ContainSubstring("id:username")))
		},
		Entry("missing name", "3"),
		Entry("empty name", "3:"),
		Entry("bad id", "x:admin"),
		Entry("zero id", "0:admin"),
	)

	It("rejects unknown types", func() {
		_, err := buildEvent("dept.created", eventFlags{})
		Expect(err).To(MatchError(ContainSubstring("unknown event type")))
	})
})
