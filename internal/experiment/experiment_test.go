package experiment

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/integrators"
)

var _ = Describe("Experiment", func() {
	var (
		exp      *Experiment
		registry *Registry
		received []Run
	)

	demoConfig := Config{
		Problem: dynamo.MeshSpec{I: 1, A: 2, T: 8, Dt: 0.8},
		Thetas:  []float64{0, 0.5, 1},
	}

	BeforeEach(func() {
		registry = NewRegistry()
		received = nil
		exp = New(demoConfig)
		Expect(exp.Setup(integrators.Solve, SinkFunc(func(run Run) error {
			received = append(received, run)
			return nil
		}))).To(Succeed())
	})

	It("fails when not setup", func() {
		_, err := New(demoConfig).Run(context.Background(), Demo{Name: "x"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a nil solver", func() {
		Expect(New(demoConfig).Setup(nil)).NotTo(Succeed())
	})

	DescribeTable("single-theta demos reproduce the first step",
		func(name string, u1 float64) {
			demo, err := registry.Get(name)
			Expect(err).NotTo(HaveOccurred())

			runs, err := exp.Run(context.Background(), demo)
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(received).To(HaveLen(1))

			mesh := runs[0].Mesh
			Expect(mesh.Len()).To(Equal(11))
			Expect(mesh.U[0]).To(Equal(1.0))
			Expect(mesh.U[1]).To(BeNumerically("~", u1, 1e-12))
			Expect(mesh.T[10]).To(Equal(8.0))
		},
		Entry("forward euler", ForwardEuler, -0.6),
		Entry("backward euler", BackwardEuler, 1/2.6),
		Entry("crank nicolson", CrankNicolson, 0.2/1.8),
	)

	It("delivers the sweep in theta order", func() {
		demo, _ := registry.Get(Unifying)

		runs, err := exp.Run(context.Background(), demo)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(3))
		Expect(received).To(HaveLen(3))

		for i, theta := range []float64{0, 0.5, 1} {
			Expect(received[i].Mesh.Spec.Theta).To(Equal(theta))
			Expect(received[i].Demo.Sweep).To(BeTrue())
			Expect(received[i].Mesh.U[0]).To(Equal(1.0))
		}
		Expect(received[0].Mesh.U[1]).To(BeNumerically("~", -0.6, 1e-12))
		Expect(received[1].Mesh.U[1]).To(BeNumerically("~", 0.111111, 1e-6))
		Expect(received[2].Mesh.U[1]).To(BeNumerically("~", 0.384615, 1e-6))
	})

	It("matches the named schemes exactly inside the sweep", func() {
		sweep, _ := registry.Get(Unifying)
		runs, err := exp.Run(context.Background(), sweep)
		Expect(err).NotTo(HaveOccurred())

		fe := integrators.ForwardEuler(1, 2, 8, 0.8)
		cn := integrators.CrankNicolson(1, 2, 8, 0.8)
		be := integrators.BackwardEuler(1, 2, 8, 0.8)
		for n := range fe.U {
			Expect(math.Float64bits(runs[0].Mesh.U[n])).To(Equal(math.Float64bits(fe.U[n])))
			Expect(math.Float64bits(runs[1].Mesh.U[n])).To(Equal(math.Float64bits(cn.U[n])))
			Expect(math.Float64bits(runs[2].Mesh.U[n])).To(Equal(math.Float64bits(be.U[n])))
		}
	})

	It("stops at the first sink error", func() {
		boom := errors.New("disk full")
		exp.AddSink(SinkFunc(func(Run) error { return boom }))

		demo, _ := registry.Get(Unifying)
		runs, err := exp.Run(context.Background(), demo)
		Expect(err).To(MatchError(boom))
		Expect(runs).To(BeEmpty())
		Expect(received).To(HaveLen(1))
	})

	It("rejects parameters outside the decay regime before solving", func() {
		bad := New(Config{Problem: dynamo.MeshSpec{I: 1, A: -2, T: 8, Dt: 0.8}, Thetas: []float64{1}})
		Expect(bad.Setup(integrators.Solve)).To(Succeed())

		demo, _ := registry.Get(BackwardEuler)
		_, err := bad.Run(context.Background(), demo)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
