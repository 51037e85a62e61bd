// Copyright (c) 2025 Neomantra Corp

package stream

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "stream suite")
}

var _ = Describe("messages", func() {
	It("encodes an authentication message as a newline-terminated JSON line", func() {
		msg := AuthenticationMessage{Op: "authentication", ID: 1, Session: "sess", AppKey: "key"}
		line, err := encodeLine(msg)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(line)).To(ContainSubstring(`"op":"authentication"`))
		Expect(string(line)).To(HaveSuffix("\n"))
	})

	It("translates a FAILURE status into a StreamError carrying the stream's error code", func() {
		status := StatusMessage{Op: "status", StatusCode: StatusCodeFailure, ErrorCode: "NO_APP_KEY", ErrorMessage: "missing app key"}
		err := errorFromStatus(status)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("NO_APP_KEY"))
		Expect(err.Error()).To(ContainSubstring("missing app key"))
	})
})

var _ = Describe("Config", func() {
	It("rejects a config missing both session and app key", func() {
		c := Config{}
		Expect(c.validate()).To(HaveOccurred())
	})

	It("accepts a config with both fields set", func() {
		c := Config{Session: "s", AppKey: "k"}
		Expect(c.validate()).NotTo(HaveOccurred())
	})
})
