package chatcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/zakopshq/zakops/cmd/zakops/chat"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has a --backend flag with the default service URL", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("backend")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("b"))
		Expect(flag.DefValue).To(Equal("http://localhost:8090"))
	})

	It("has an --api-key flag", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Flags().Lookup("api-key")).NotTo(BeNil())
	})

	It("has a --new flag defaulting to false", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("new")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("accepts no positional arguments", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Args(cmd, []string{"unexpected"})).To(HaveOccurred())
	})
})
