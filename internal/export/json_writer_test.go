// Copyright (c) 2025 Neomantra Corp

package export

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/larkspur-data/betfair-stream"
)

var _ = Describe("JSONWriter", func() {
	It("writes one newline-terminated JSON object per snapshot", func() {
		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		Expect(w.WriteSnapshot(&betfair.Snapshot{PublishTime: 1, Clk: "A"})).To(Succeed())
		Expect(w.WriteSnapshot(&betfair.Snapshot{PublishTime: 2, Clk: "B"})).To(Succeed())
		Expect(w.Flush()).To(Succeed())

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(ContainSubstring(`"Clk":"A"`))
		Expect(lines[1]).To(ContainSubstring(`"Clk":"B"`))
	})
})
