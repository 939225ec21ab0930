package chatcmder

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skeinhq/skein/pkg/engine"
)

var _ = Describe("terminalSink", func() {
	var (
		out  *bytes.Buffer
		sink *terminalSink
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		sink = newTerminalSink(out)
	})

	Describe("streaming lifecycle", func() {
		It("opens the container once and streams fragments in order", func() {
			sink.CreateContainer()
			sink.CreateContainer()
			sink.AppendFragment("Hello, ")
			sink.AppendFragment("world")

			text := out.String()
			Expect(text).To(ContainSubstring("assistant>"))
			Expect(text).To(ContainSubstring("Hello, world"))
		})

		It("replaces the live region with the rendered body", func() {
			sink.CreateContainer()
			sink.AppendFragment("raw line one\nraw line two")
			sink.FinalizeMessage("rendered body", "", false)

			text := out.String()
			// Cursor moves up over the prompt line and the completed streamed line.
			Expect(text).To(ContainSubstring("\x1b[2A\x1b[J"))
			Expect(text).To(ContainSubstring("rendered body"))
		})

		It("finalizes a turn that never streamed anything visible", func() {
			sink.CreateContainer()
			sink.FinalizeMessage("rendered body", "the thinking", false)

			text := out.String()
			Expect(text).To(ContainSubstring("the thinking"))
			Expect(text).To(ContainSubstring("rendered body"))
		})

		It("marks turns that carry web search sources", func() {
			sink.CreateContainer()
			sink.AppendFragment("answer")
			sink.FinalizeMessage("answer", "", true)

			Expect(out.String()).To(ContainSubstring("web search sources"))
		})
	})

	Describe("Notify", func() {
		It("prefixes errors with the fail mark", func() {
			sink.Notify("something broke", engine.SeverityError)
			Expect(out.String()).To(ContainSubstring("something broke"))
		})

		It("renders info messages dimmed without a mark", func() {
			sink.Notify("just so you know", engine.SeverityInfo)
			Expect(out.String()).To(ContainSubstring("just so you know"))
		})
	})

	Describe("ShowImage", func() {
		It("reports the saved image path", func() {
			sink.ShowImage("skein-image-123.png")
			Expect(out.String()).To(ContainSubstring("skein-image-123.png"))
		})
	})
})
