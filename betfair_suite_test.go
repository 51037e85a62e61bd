// Copyright (c) 2025 Neomantra Corp

package betfair_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBetfair(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "betfair core suite")
}
