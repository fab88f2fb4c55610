package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/zakopshq/zakops/cmd/zakops/serve"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("registers the listen flag with its default", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("l"))
		Expect(flag.DefValue).To(Equal(":8090"))
	})

	It("registers the fixtures flag", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("fixtures")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("f"))
	})

	It("registers the watch flag defaulting to off", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("watch")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("rejects positional arguments", func() {
		cmd := servecmder.NewServeCmd()
		cmd.SetArgs([]string{"extra"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
