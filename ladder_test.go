// Copyright (c) 2025 Neomantra Corp

package betfair_test

import (
	"github.com/larkspur-data/betfair-stream"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ps(price, size float64) betfair.PriceSize {
	return betfair.PriceSize{Price: price, Size: size}
}

var _ = Describe("PriceLadder", func() {
	Context("back ladder (ascending)", func() {
		It("grows in sorted order across successive delta batches", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)

			l.Apply([]betfair.PriceSize{ps(2.0, 5), ps(3.0, 5), ps(2.5, 4)})
			Expect(l.Entries()).To(Equal([]betfair.PriceSize{ps(2.0, 5), ps(2.5, 4), ps(3.0, 5)}))

			l.Apply([]betfair.PriceSize{ps(2.5, 0), ps(2.2, 7)})
			Expect(l.Entries()).To(Equal([]betfair.PriceSize{ps(2.0, 5), ps(2.2, 7), ps(3.0, 5)}))
		})

		It("collapses duplicate prices within one batch to the last write", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)
			l.Apply([]betfair.PriceSize{ps(2.0, 5), ps(2.0, 9), ps(2.0, 0)})
			Expect(l.Entries()).To(BeEmpty())
		})

		It("is a no-op deleting an absent price", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)
			l.Apply([]betfair.PriceSize{ps(2.0, 5)})
			l.Apply([]betfair.PriceSize{ps(9.9, 0)})
			Expect(l.Entries()).To(Equal([]betfair.PriceSize{ps(2.0, 5)}))
		})

		It("restores prior state after (p, s) followed by (p, 0)", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)
			l.Apply([]betfair.PriceSize{ps(2.0, 5), ps(3.0, 5)})
			before := append([]betfair.PriceSize{}, l.Entries()...)

			l.Apply([]betfair.PriceSize{ps(2.5, 4)})
			l.Apply([]betfair.PriceSize{ps(2.5, 0)})
			Expect(l.Entries()).To(Equal(before))
		})
	})

	Context("lay ladder (descending)", func() {
		It("grows in descending sorted order", func() {
			l := betfair.NewPriceLadder(betfair.DirectionLay)
			l.Apply([]betfair.PriceSize{ps(2.0, 5), ps(3.0, 5), ps(2.5, 4)})
			Expect(l.Entries()).To(Equal([]betfair.PriceSize{ps(3.0, 5), ps(2.5, 4), ps(2.0, 5)}))
		})
	})

	Context("empty application", func() {
		It("leaves the ladder unchanged when applying an empty batch", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)
			l.Apply([]betfair.PriceSize{ps(2.0, 5)})
			l.Apply(nil)
			Expect(l.Entries()).To(Equal([]betfair.PriceSize{ps(2.0, 5)}))
		})
	})

	Context("Clone", func() {
		It("produces an independent copy", func() {
			l := betfair.NewPriceLadder(betfair.DirectionBack)
			l.Apply([]betfair.PriceSize{ps(2.0, 5)})
			clone := l.Clone()
			clone.Apply([]betfair.PriceSize{ps(3.0, 1)})
			Expect(l.Entries()).To(HaveLen(1))
			Expect(clone.Entries()).To(HaveLen(2))
		})
	})
})
