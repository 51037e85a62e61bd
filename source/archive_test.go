// Copyright (c) 2025 Neomantra Corp

package source_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/larkspur-data/betfair-stream/source"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Open", func() {
	It("reads a plain NDJSON file unchanged", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "markets.json")
		Expect(os.WriteFile(path, []byte("{\"op\":\"mcm\"}\n"), 0o644)).To(Succeed())

		entries, err := source.Open(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		defer entries[0].Close()

		data, err := io.ReadAll(entries[0].Reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{\"op\":\"mcm\"}\n"))
	})

	It("decompresses a gzip-suffixed file transparently", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "markets.json.gz")

		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, err := gw.Write([]byte("{\"op\":\"mcm\"}\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.Close()).To(Succeed())
		Expect(os.WriteFile(path, buf.Bytes(), 0o644)).To(Succeed())

		entries, err := source.Open(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		defer entries[0].Close()

		data, err := io.ReadAll(entries[0].Reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{\"op\":\"mcm\"}\n"))
	})

	It("yields one entry per regular file inside a tar archive", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "markets.tar")

		var buf bytes.Buffer
		tw := tar.NewWriter(&buf)
		contents := map[string]string{
			"1.1.json": "{\"op\":\"mcm\",\"mc\":[{\"id\":\"1.1\"}]}\n",
			"1.2.json": "{\"op\":\"mcm\",\"mc\":[{\"id\":\"1.2\"}]}\n",
		}
		for name, body := range contents {
			Expect(tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(body)), Mode: 0o644})).To(Succeed())
			_, err := tw.Write([]byte(body))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(tw.Close()).To(Succeed())
		Expect(os.WriteFile(path, buf.Bytes(), 0o644)).To(Succeed())

		entries, err := source.Open(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
	})

	It("strips the archive-relative suffix in BaseName", func() {
		Expect(source.BaseName("/tmp/markets.tar:1.1.json")).To(Equal("1.1.json"))
		Expect(source.BaseName("/tmp/markets.json")).To(Equal("markets.json"))
	})
})
