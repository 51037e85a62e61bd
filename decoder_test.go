// Copyright (c) 2025 Neomantra Corp

package betfair_test

import (
	"strings"

	"github.com/larkspur-data/betfair-stream"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const s1Frame = `{"op":"mcm","pt":1000,"clk":"A","mc":[{"id":"1.1","marketDefinition":{"eventId":"1","eventTypeId":"1","betDelay":0,"status":"OPEN","bettingType":"ODDS","marketTime":"2024-01-01T00:00:00Z","openDate":"2024-01-01T00:00:00Z","version":1,"bspMarket":false,"bspReconciled":false,"complete":false,"crossMatching":false,"discountAllowed":false,"inPlay":false,"persistenceEnabled":false,"runnersVoidable":false,"turnInPlayEnabled":false,"marketBaseRate":5,"numberOfActiveRunners":2,"numberOfWinners":1,"runners":[{"id":10,"status":"ACTIVE","sortPriority":1},{"id":11,"status":"ACTIVE","sortPriority":2}],"marketType":"WIN","regulators":["MR_INT"],"timezone":"UTC"}}]}` + "\n"

func decodeFrames(cfg betfair.Config, frames ...string) []*betfair.Snapshot {
	dec := betfair.NewDecoder(strings.NewReader(strings.Join(frames, "")), "test", cfg)
	var out []*betfair.Snapshot
	for {
		snap, err := dec.Next()
		Expect(err).NotTo(HaveOccurred())
		if snap == nil {
			break
		}
		out = append(out, snap)
	}
	return out
}

func findRunner(m *betfair.Market, id betfair.SelectionID) *betfair.RunnerBook {
	for _, r := range m.Runners {
		if r.Key.ID == id {
			return r
		}
	}
	return nil
}

var _ = Describe("Decoder", func() {
	cfg := betfair.DefaultConfig()

	It("S1: creates a market with two runners and empty ladders", func() {
		snaps := decodeFrames(cfg, s1Frame)
		Expect(snaps).To(HaveLen(1))
		Expect(snaps[0].Markets).To(HaveLen(1))

		m := snaps[0].Markets[0]
		Expect(m.MarketID).To(Equal(betfair.MarketID("1.1")))
		Expect(m.PublishTime).To(Equal(uint64(1000)))
		Expect(m.Runners).To(HaveLen(2))
		Expect(findRunner(m, 10).EX.AvailableToLay.Len()).To(Equal(0))
	})

	It("S2: grows the back-ordered available-to-lay ladder", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5],[3.0,5],[2.5,4]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2)
		m := snaps[1].Markets[0]
		r10 := findRunner(m, 10)
		Expect(r10.EX.AvailableToLay.Entries()).To(Equal([]betfair.PriceSize{
			{Price: 2.0, Size: 5}, {Price: 2.5, Size: 4}, {Price: 3.0, Size: 5},
		}))
	})

	It("S3: applies a mixed update/delete/insert delta", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5],[3.0,5],[2.5,4]]}]}]}` + "\n"
		s3 := `{"op":"mcm","pt":1002,"clk":"C","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.5,0],[2.2,7]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2, s3)
		m := snaps[2].Markets[0]
		r10 := findRunner(m, 10)
		Expect(r10.EX.AvailableToLay.Entries()).To(Equal([]betfair.PriceSize{
			{Price: 2.0, Size: 5}, {Price: 2.2, Size: 7}, {Price: 3.0, Size: 5},
		}))
	})

	It("S4: an image clears prior ladder content without changing market identity", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5],[3.0,5],[2.5,4]]}]}]}` + "\n"
		s3 := `{"op":"mcm","pt":1002,"clk":"C","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.5,0],[2.2,7]]}]}]}` + "\n"
		s4 := `{"op":"mcm","pt":1003,"clk":"D","mc":[{"id":"1.1","img":true,"rc":[{"id":10,"atl":[[4.0,1]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2, s3, s4)
		m := snaps[3].Markets[0]
		Expect(m.MarketID).To(Equal(betfair.MarketID("1.1")))
		r10 := findRunner(m, 10)
		Expect(r10.EX.AvailableToLay.Entries()).To(Equal([]betfair.PriceSize{{Price: 4.0, Size: 1}}))
	})

	It("S5: cumulative_runner_tv recomputes total_matched and ignores market-level tv", func() {
		cumCfg := cfg
		cumCfg.CumulativeRunnerTV = true
		s5 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"trd":[[2.0,10],[3.0,20]]}],"tv":99}]}` + "\n"
		snaps := decodeFrames(cumCfg, s1Frame, s5)
		m := snaps[1].Markets[0]
		r10 := findRunner(m, 10)
		Expect(r10.TotalMatched).To(Equal(30.0))
		Expect(m.TotalMatched).To(Equal(30.0))
	})

	It("S6: a REMOVED runner has empty EX ladders but retains SP", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5]],"spn":1.5}]}]}` + "\n"
		s6 := `{"op":"mcm","pt":1002,"clk":"C","mc":[{"id":"1.1","marketDefinition":{"eventId":"1","eventTypeId":"1","betDelay":0,"status":"OPEN","bettingType":"ODDS","marketTime":"2024-01-01T00:00:00Z","openDate":"2024-01-01T00:00:00Z","version":2,"bspMarket":false,"bspReconciled":false,"complete":false,"crossMatching":false,"discountAllowed":false,"inPlay":false,"persistenceEnabled":false,"runnersVoidable":false,"turnInPlayEnabled":false,"marketBaseRate":5,"numberOfActiveRunners":1,"numberOfWinners":1,"runners":[{"id":10,"status":"REMOVED","sortPriority":1,"adjustmentFactor":0.5},{"id":11,"status":"ACTIVE","sortPriority":2}],"marketType":"WIN","regulators":["MR_INT"],"timezone":"UTC"}}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2, s6)
		m := snaps[2].Markets[0]
		r10 := findRunner(m, 10)
		Expect(r10.Status).To(Equal(betfair.RunnerStatus_Removed))
		Expect(r10.EX.AvailableToLay.Len()).To(Equal(0))
		Expect(r10.SP.NearPrice).NotTo(BeNil())
		Expect(*r10.SP.NearPrice).To(Equal(1.5))
	})

	It("invariant: an empty rc array leaves runners unchanged", func() {
		empty := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, empty)
		m := snaps[1].Markets[0]
		Expect(m.Runners).To(HaveLen(2))
		Expect(findRunner(m, 10).EX.AvailableToLay.Len()).To(Equal(0))
	})

	It("skips a market with no definition on its first frame but continues the rest of the batch", func() {
		frame := `{"op":"mcm","pt":1000,"clk":"A","mc":[{"id":"1.2","rc":[{"id":1}]},{"id":"1.1","marketDefinition":{"eventId":"1","eventTypeId":"1","betDelay":0,"status":"OPEN","bettingType":"ODDS","marketTime":"2024-01-01T00:00:00Z","openDate":"2024-01-01T00:00:00Z","version":1,"bspMarket":false,"bspReconciled":false,"complete":false,"crossMatching":false,"discountAllowed":false,"inPlay":false,"persistenceEnabled":false,"runnersVoidable":false,"turnInPlayEnabled":false,"marketBaseRate":5,"numberOfActiveRunners":2,"numberOfWinners":1,"runners":[{"id":10,"status":"ACTIVE","sortPriority":1}],"marketType":"WIN","regulators":["MR_INT"],"timezone":"UTC"}}]}` + "\n"
		snaps := decodeFrames(cfg, frame)
		Expect(snaps[0].Markets).To(HaveLen(1))
		Expect(snaps[0].Markets[0].MarketID).To(Equal(betfair.MarketID("1.1")))
	})

	It("publish-time is non-decreasing across snapshots from one stream", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2)
		Expect(snaps[0].PublishTime).To(BeNumerically("<=", snaps[1].PublishTime))
	})

	It("a frame without pt leaves each touched market's publish time unchanged", func() {
		noPt := `{"op":"mcm","clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, noPt)
		Expect(snaps[1].Markets[0].PublishTime).To(Equal(uint64(1000)))
	})

	It("spb lands in lay-liability-taken and spl lands in back-stake-taken", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"spb":[[2.0,5]],"spl":[[3.0,7]]}]}]}` + "\n"
		snaps := decodeFrames(cfg, s1Frame, s2)
		r10 := findRunner(snaps[1].Markets[0], 10)
		Expect(r10.SP.LayLiabilityTaken.Len()).To(Equal(1))
		Expect(r10.SP.LayLiabilityTaken.Entries()[0].Price).To(Equal(2.0))
		Expect(r10.SP.BackStakeTaken.Len()).To(Equal(1))
		Expect(r10.SP.BackStakeTaken.Entries()[0].Price).To(Equal(3.0))
	})
})
