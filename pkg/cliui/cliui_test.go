package cliui_test

import (
	"bytes"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skeinhq/skein/pkg/cliui"
)

// syncBuffer makes a bytes.Buffer safe for the spinner's writer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ = Describe("Spinner", func() {
	var (
		out     *syncBuffer
		spinner *cliui.Spinner
	)

	BeforeEach(func() {
		out = &syncBuffer{}
		spinner = cliui.NewSpinner(out)
	})

	AfterEach(func() {
		spinner.Stop()
	})

	It("renders its label while running", func() {
		spinner.Start("Thinking")
		Eventually(out.String, time.Second).Should(ContainSubstring("Thinking"))
	})

	It("relabels while running", func() {
		spinner.Start("Thinking")
		Eventually(out.String, time.Second).Should(ContainSubstring("Thinking"))

		spinner.SetLabel("Searching the web")
		Eventually(out.String, time.Second).Should(ContainSubstring("Searching the web"))
	})

	It("starts when SetLabel is called on a stopped spinner", func() {
		spinner.SetLabel("Generating image")
		Eventually(out.String, time.Second).Should(ContainSubstring("Generating image"))
	})

	It("tolerates Stop without Start", func() {
		spinner.Stop()
		Expect(out.String()).To(BeEmpty())
	})
})

var _ = Describe("Mark", func() {
	It("returns the success mark for nil errors", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
	})

	It("returns the fail mark for errors", func() {
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(cliui.FormatDuration(250 * time.Millisecond)).To(Equal("250ms"))
	})
})

var _ = Describe("RenderMarkdown", func() {
	It("renders markdown without error", func() {
		rendered, err := cliui.RenderMarkdown("# Heading\n\nSome **bold** text.")
		Expect(err).NotTo(HaveOccurred())
		Expect(rendered).To(ContainSubstring("Heading"))
		Expect(rendered).To(ContainSubstring("bold"))
	})
})
