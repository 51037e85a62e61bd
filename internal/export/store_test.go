// Copyright (c) 2025 Neomantra Corp

package export

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore(GinkgoT().TempDir(), nil)
		Expect(store.InitCache()).To(Succeed())
		DeferCleanup(func() { store.Close() })
	})

	It("queries an empty cache without error", func() {
		out, err := store.Query("SELECT 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("1"))
	})

	It("writes a batch, lists it, and makes it queryable through the runners view", func() {
		rows := []RunnerRow{
			{MarketID: "1.1", RunnerID: 10, TotalMatched: 100, BestBackPrice: 2.0},
			{MarketID: "1.1", RunnerID: 11, TotalMatched: 50, BestBackPrice: 3.5},
		}
		path, err := store.WriteBatch("batch-one", rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix("batch-one.parquet"))

		files, err := store.ListFiles()
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(files[0].Filename).To(Equal("batch-one.parquet"))
		Expect(files[0].SizeBytes).To(BeNumerically(">", 0))

		out, err := store.Query("SELECT count(*) AS n FROM runners")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("2"))
	})

	It("rejects a batch name containing path separators", func() {
		_, err := store.WriteBatch("../escape", nil)
		Expect(err).To(HaveOccurred())
	})

	It("clears the cache, reporting the number of files removed", func() {
		_, err := store.WriteBatch("batch-two", []RunnerRow{{MarketID: "1.2"}})
		Expect(err).NotTo(HaveOccurred())

		removed, err := store.ClearCache()
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(Equal(1))

		files, err := store.ListFiles()
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(BeEmpty())
	})
})
