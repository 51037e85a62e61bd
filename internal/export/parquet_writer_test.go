// Copyright (c) 2025 Neomantra Corp

package export

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/larkspur-data/betfair-stream"
)

var _ = Describe("RunnerRowsFromSnapshot", func() {
	It("flattens each runner's best-of-ladder prices and last traded price", func() {
		market := betfair.NewMarket("1.1")
		market.PublishTime = 1000

		runner := betfair.NewRunnerBook(betfair.RunnerKey{ID: 10})
		runner.TotalMatched = 42.5
		lastPrice := 2.5
		runner.LastPriceTraded = &lastPrice
		runner.EX.AvailableToBack.Apply([]betfair.PriceSize{{Price: 2.0, Size: 100}, {Price: 1.9, Size: 50}})
		runner.EX.AvailableToLay.Apply([]betfair.PriceSize{{Price: 2.1, Size: 80}})
		market.Runners = append(market.Runners, runner)

		snap := &betfair.Snapshot{PublishTime: 1000, Markets: []*betfair.Market{market}}

		rows := RunnerRowsFromSnapshot(snap)
		Expect(rows).To(HaveLen(1))

		row := rows[0]
		Expect(row.MarketID).To(Equal("1.1"))
		Expect(row.RunnerID).To(Equal(int64(10)))
		Expect(row.TotalMatched).To(Equal(42.5))
		Expect(row.LastPriceTraded).To(Equal(2.5))
		// AvailableToBack is lay-ordered (descending), so its first entry
		// is the highest price: 2.0 before 1.9.
		Expect(row.BestBackPrice).To(Equal(2.0))
		Expect(row.BestBackSize).To(Equal(100.0))
		Expect(row.BestLayPrice).To(Equal(2.1))
		Expect(row.BestLaySize).To(Equal(80.0))
	})

	It("leaves best-price fields at zero for a runner with no ladder entries", func() {
		market := betfair.NewMarket("1.2")
		runner := betfair.NewRunnerBook(betfair.RunnerKey{ID: 20})
		market.Runners = append(market.Runners, runner)
		snap := &betfair.Snapshot{Markets: []*betfair.Market{market}}

		rows := RunnerRowsFromSnapshot(snap)
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].BestBackPrice).To(Equal(0.0))
		Expect(rows[0].LastPriceTraded).To(Equal(0.0))
	})
})
