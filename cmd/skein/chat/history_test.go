package chatcmder

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skeinhq/skein/pkg/config"
)

var _ = Describe("openHistory", func() {
	newCommander := func(driver string) *chatCommander {
		return &chatCommander{
			cfg: &config.Config{
				History: config.HistoryConfig{Driver: driver},
			},
		}
	}

	It("opens the memory driver and reports the step", func() {
		out := &bytes.Buffer{}
		c := newCommander("memory")

		store, err := c.openHistory(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
		Expect(store.Close()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Opening memory history"))
	})

	It("defaults an empty driver to memory", func() {
		out := &bytes.Buffer{}
		c := newCommander("")

		store, err := c.openHistory(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
		Expect(store.Close()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("memory history"))
	})

	It("opens a sqlite store at the configured path", func() {
		tmpDir, err := os.MkdirTemp("", "chat-history-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		out := &bytes.Buffer{}
		c := newCommander("sqlite")
		c.cfg.History.SQLitePath = filepath.Join(tmpDir, "history.db")

		store, err := c.openHistory(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
		Expect(store.Close()).To(Succeed())

		_, err = os.Stat(c.cfg.History.SQLitePath)
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a connection URL for the postgres driver", func() {
		out := &bytes.Buffer{}
		c := newCommander("postgres")

		_, err := c.openHistory(out)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("history.postgres_url"))
	})

	It("rejects unknown drivers", func() {
		out := &bytes.Buffer{}
		c := newCommander("carrier-pigeon")

		_, err := c.openHistory(out)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown history driver"))
	})
})
