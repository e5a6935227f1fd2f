//go:build debug

package cliquefusion_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clique-fusion/cliquefusion/cliqueindex"
)

var _ = Describe("CliqueIndex.Insert", func() {
	Context("inserting an observation whose id already exists", func() {
		It("panics, naming the duplicate id", func() {
			idx := cliqueindex.New(chi2)
			a := circular(0, 0, 1)
			idx.Insert(a)

			Expect(func() { idx.Insert(a) }).To(PanicWith(ContainSubstring(a.ID.String())))
		})
	})
})
