package responses_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/llm/provider"
	"github.com/skeinhq/skein/pkg/llm/provider/responses"
)

var _ = Describe("Responses Provider", func() {
	var p provider.Provider

	BeforeEach(func() {
		p = responses.New()
	})

	Describe("Name", func() {
		It("returns 'responses'", func() {
			Expect(p.Name()).To(Equal("responses"))
		})
	})

	Describe("endpoint metadata", func() {
		It("is continuable", func() {
			Expect(p.Continuable()).To(BeTrue())
		})

		It("posts to /responses", func() {
			Expect(p.Path()).To(Equal("/responses"))
		})
	})

	Describe("BuildRequest", func() {
		It("sends full history without a continuation token", func() {
			body, err := p.BuildRequest(&llm.ChatRequest{
				Model: "gpt-4o-mini",
				Messages: []llm.Message{
					{Role: "user", Content: "first"},
					{Role: "assistant", Content: "reply"},
					{Role: "user", Content: "second"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			var decoded struct {
				Input []map[string]string `json:"input"`
			}
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded.Input).To(HaveLen(3))
		})

		It("sends only the pending user message with a continuation token", func() {
			body, err := p.BuildRequest(&llm.ChatRequest{
				Model:             "gpt-4o-mini",
				ContinuationToken: "resp_abc",
				Messages: []llm.Message{
					{Role: "user", Content: "first"},
					{Role: "assistant", Content: "reply"},
					{Role: "user", Content: "second"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			var decoded struct {
				Input              []map[string]string `json:"input"`
				PreviousResponseID string              `json:"previous_response_id"`
			}
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded.PreviousResponseID).To(Equal("resp_abc"))
			Expect(decoded.Input).To(HaveLen(1))
			Expect(decoded.Input[0]["content"]).To(Equal("second"))
		})

		It("declares the web_search tool when requested", func() {
			body, err := p.BuildRequest(&llm.ChatRequest{
				Model:     "gpt-4o",
				WebSearch: true,
				Messages:  []llm.Message{{Role: "user", Content: "latest news"}},
			})
			Expect(err).NotTo(HaveOccurred())

			var decoded struct {
				Tools []map[string]string `json:"tools"`
			}
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded.Tools).To(HaveLen(1))
			Expect(decoded.Tools[0]["type"]).To(Equal("web_search"))
		})
	})

	Describe("ParseStreamChunk", func() {
		It("marks the request accepted on response.created", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.created","response":{"id":"resp_1"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Accepted).To(BeTrue())
		})

		It("establishes the correlation id on a message item", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.output_item.added","item":{"id":"msg_1","type":"message"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.ItemStarted).To(Equal("msg_1"))
		})

		It("tags text deltas with their item id", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.output_text.delta","item_id":"msg_1","delta":"Hel"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.ItemID).To(Equal("msg_1"))
			Expect(*chunk.Content).To(Equal("Hel"))
		})

		It("keeps an empty-string delta present", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.output_text.delta","item_id":"msg_1","delta":""}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Content).NotTo(BeNil())
			Expect(*chunk.Content).To(BeEmpty())
		})

		It("relabels the waiting indicator for search lifecycle events", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.web_search_call.searching","item_id":"ws_1"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.StatusLabel).NotTo(BeEmpty())
		})

		It("captures the search query from a finished web_search_call", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.output_item.done","item":{"id":"ws_1","type":"web_search_call","action":{"type":"search","query":"go sse parsing"}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.SearchQuery).To(Equal("go sse parsing"))
		})

		It("extracts citations by character range", func() {
			payload := `{"type":"response.output_item.done","item":{"id":"msg_1","type":"message","content":[{"type":"output_text","text":"Go is great for streams.","annotations":[{"type":"url_citation","title":"Go Blog","url":"https://go.dev/blog","start_index":0,"end_index":11}]}]}}`
			chunk, err := p.ParseStreamChunk([]byte(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.SearchResults).NotTo(BeNil())
			Expect(chunk.SearchResults.Results).To(HaveLen(1))
			Expect(chunk.SearchResults.Results[0].Title).To(Equal("Go Blog"))
			Expect(chunk.SearchResults.Results[0].Excerpt).To(Equal("Go is great"))
		})

		It("clamps out-of-range citation offsets", func() {
			payload := `{"type":"response.output_item.done","item":{"id":"msg_1","type":"message","content":[{"type":"output_text","text":"short","annotations":[{"type":"url_citation","title":"T","url":"https://x","start_index":100,"end_index":200}]}]}}`
			chunk, err := p.ParseStreamChunk([]byte(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.SearchResults.Results[0].Excerpt).To(BeEmpty())
			Expect(chunk.SearchResults.Results[0].URL).To(Equal("https://x"))
		})

		It("captures the continuation token on response.completed", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.completed","response":{"id":"resp_9","status":"completed"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
			Expect(chunk.ContinuationToken).To(Equal("resp_9"))
		})

		It("reports a failure reason on response.failed without a token", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.failed","response":{"id":"resp_9","status":"failed","error":{"message":"server overloaded"}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
			Expect(chunk.FailureReason).To(Equal("server overloaded"))
			Expect(chunk.ContinuationToken).To(BeEmpty())
		})

		It("reports incomplete responses", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.incomplete","response":{"id":"resp_9","status":"incomplete","incomplete_details":{"reason":"max_output_tokens"}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
			Expect(chunk.FailureReason).To(ContainSubstring("max_output_tokens"))
		})

		It("skips unknown event types", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"type":"response.in_progress"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk).To(BeNil())
		})
	})
})
