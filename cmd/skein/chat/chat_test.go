package chatcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/skeinhq/skein/cmd/skein/chat"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("has --model flag with shorthand and default", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("m"))
		Expect(flag.DefValue).To(Equal("gpt-4o-mini"))
	})

	It("has --persona flag with shorthand", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("persona")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("p"))
	})

	It("has endpoint override flags with API defaults", func() {
		cmd := chatcmder.NewChatCmd()

		openai := cmd.Flags().Lookup("openai-base")
		Expect(openai).NotTo(BeNil())
		Expect(openai.DefValue).To(Equal("https://api.openai.com/v1"))

		xai := cmd.Flags().Lookup("xai-base")
		Expect(xai).NotTo(BeNil())
		Expect(xai.DefValue).To(Equal("https://api.x.ai/v1"))
	})

	It("has history selection flags", func() {
		cmd := chatcmder.NewChatCmd()

		driver := cmd.Flags().Lookup("history-driver")
		Expect(driver).NotTo(BeNil())
		Expect(driver.DefValue).To(Equal("memory"))

		Expect(cmd.Flags().Lookup("sqlite")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("postgres")).NotTo(BeNil())
	})

	It("rejects positional arguments", func() {
		cmd := chatcmder.NewChatCmd()
		cmd.SetArgs([]string{"hello"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
