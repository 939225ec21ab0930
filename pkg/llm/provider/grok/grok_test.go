package grok_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/llm/provider"
	"github.com/skeinhq/skein/pkg/llm/provider/grok"
	"github.com/skeinhq/skein/pkg/sse"
)

var _ = Describe("Grok Provider", func() {
	var p provider.Provider

	BeforeEach(func() {
		p = grok.New()
	})

	Describe("Name", func() {
		It("returns 'grok'", func() {
			Expect(p.Name()).To(Equal("grok"))
		})
	})

	Describe("endpoint metadata", func() {
		It("authenticates with the xai credential", func() {
			Expect(p.Credential()).To(Equal("xai"))
		})

		It("uses record framing", func() {
			Expect(p.Framing()).To(Equal(sse.FramingRecord))
		})
	})

	Describe("BuildRequest", func() {
		It("serializes a streaming chat request", func() {
			body, err := p.BuildRequest(&llm.ChatRequest{
				Model: "grok-3",
				Messages: []llm.Message{
					{Role: "user", Content: "Hi"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded["model"]).To(Equal("grok-3"))
			Expect(decoded["stream"]).To(BeTrue())
		})
	})

	Describe("ParseStreamChunk", func() {
		It("extracts the main content delta", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"choices":[{"delta":{"content":"sure"}}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Content).NotTo(BeNil())
			Expect(*chunk.Content).To(Equal("sure"))
			Expect(chunk.Reasoning).To(BeNil())
		})

		It("extracts the reasoning delta", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"choices":[{"delta":{"reasoning_content":"thinking"}}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Content).To(BeNil())
			Expect(chunk.Reasoning).NotTo(BeNil())
			Expect(*chunk.Reasoning).To(Equal("thinking"))
		})

		It("extracts both channels from one frame", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"choices":[{"delta":{"content":"a","reasoning_content":"b"}}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(*chunk.Content).To(Equal("a"))
			Expect(*chunk.Reasoning).To(Equal("b"))
		})

		It("marks the chunk terminal on finish_reason", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"choices":[{"delta":{},"finish_reason":"stop"}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
		})
	})
})
