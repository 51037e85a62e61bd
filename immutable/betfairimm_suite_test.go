// Copyright (c) 2025 Neomantra Corp

package betfairimm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBetfairImm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "betfairimm copy-on-write suite")
}
