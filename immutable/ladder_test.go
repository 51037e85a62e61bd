// Copyright (c) 2025 Neomantra Corp

package betfairimm_test

import (
	"github.com/larkspur-data/betfair-stream"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("immutable ladder application", func() {
	It("shares the runner's ladders when a frame touches no ladder", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10}]}]}` + "\n"
		snaps := decodeFrames(betfair.DefaultConfig(), s1Frame, s2)
		r10before := findRunner(snaps[0].Markets[0], 10)
		r10after := findRunner(snaps[1].Markets[0], 10)
		Expect(r10after.EX.AvailableToLay).To(BeIdenticalTo(r10before.EX.AvailableToLay))
		Expect(r10after.EX.AvailableToBack).To(BeIdenticalTo(r10before.EX.AvailableToBack))
		Expect(r10after.EX.TradedVolume).To(BeIdenticalTo(r10before.EX.TradedVolume))
	})

	It("leaves an older snapshot's ladder content untouched after a later delta", func() {
		s2 := `{"op":"mcm","pt":1001,"clk":"B","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[2.0,5]]}]}]}` + "\n"
		s3 := `{"op":"mcm","pt":1002,"clk":"C","mc":[{"id":"1.1","rc":[{"id":10,"atl":[[3.0,9]]}]}]}` + "\n"
		snaps := decodeFrames(betfair.DefaultConfig(), s1Frame, s2, s3)

		r10s2 := findRunner(snaps[1].Markets[0], 10)
		snapshotted := append([]betfair.PriceSize{}, r10s2.EX.AvailableToLay.Entries()...)

		r10s3 := findRunner(snaps[2].Markets[0], 10)
		Expect(r10s3.EX.AvailableToLay.Entries()).NotTo(Equal(snapshotted))
		Expect(r10s2.EX.AvailableToLay.Entries()).To(Equal(snapshotted))
	})
})
