package experiment

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/decay/internal/dynamo"
)

var _ = Describe("Registry", func() {
	var r *Registry

	BeforeEach(func() {
		r = NewRegistry()
	})

	It("lists the demos in their fixed order", func() {
		Expect(r.Names()).To(Equal([]string{
			"forward_euler", "backward_euler", "crank_nicolson", "unifying",
		}))
	})

	It("maps named schemes to their theta", func() {
		fe, err := r.Get(ForwardEuler)
		Expect(err).NotTo(HaveOccurred())
		Expect(fe.Theta).To(Equal(0.0))
		Expect(fe.Abbrev).To(Equal("fe"))

		be, _ := r.Get(BackwardEuler)
		Expect(be.Theta).To(Equal(1.0))
		Expect(be.Abbrev).To(Equal("be"))

		cn, _ := r.Get(CrankNicolson)
		Expect(cn.Theta).To(Equal(0.5))
		Expect(cn.Abbrev).To(Equal("cn"))

		u, _ := r.Get(Unifying)
		Expect(u.Sweep).To(BeTrue())
	})

	It("resolves an empty selection to every demo", func() {
		demos, err := r.Resolve(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(demos).To(HaveLen(4))
		Expect(demos[0].Name).To(Equal(ForwardEuler))
		Expect(demos[3].Name).To(Equal(Unifying))
	})

	It("keeps the caller's order for explicit selections", func() {
		demos, err := r.Resolve([]string{"unifying", "forward_euler"})
		Expect(err).NotTo(HaveOccurred())
		Expect(demos[0].Name).To(Equal(Unifying))
		Expect(demos[1].Name).To(Equal(ForwardEuler))
	})

	It("rejects the whole selection on an unknown name", func() {
		demos, err := r.Resolve([]string{"forward_euler", "leapfrog"})
		Expect(err).To(MatchError(dynamo.ErrUnknownScheme))
		Expect(err.Error()).To(ContainSubstring(`"leapfrog"`))
		Expect(err.Error()).To(ContainSubstring("crank_nicolson"))
		Expect(demos).To(BeNil())
	})

	It("does not expose its internal order", func() {
		names := r.Names()
		names[0] = "changed"
		Expect(r.Names()[0]).To(Equal(ForwardEuler))
	})
})
