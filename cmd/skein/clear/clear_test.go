package clearcmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	clearcmder "github.com/skeinhq/skein/cmd/skein/clear"
	"github.com/skeinhq/skein/pkg/dotdir"
	"github.com/skeinhq/skein/pkg/engine"
)

var _ = Describe("Clear Command", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "clear-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("creates a command with the correct use string", func() {
		cmd := clearcmder.NewClearCmd()
		Expect(cmd.Use).To(Equal("clear"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("removes a saved session", func() {
		store := dotdir.NewSessionStore(tmpDir)
		err := store.Save(&engine.ContinuityState{
			ConversationID:    "conv-1",
			ContinuationToken: "resp_99",
		})
		Expect(err).NotTo(HaveOccurred())
		_, statErr := os.Stat(filepath.Join(tmpDir, "session.json"))
		Expect(statErr).NotTo(HaveOccurred())

		cmd := clearcmder.NewClearCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to .skein/ config directory")
		cmd.SetArgs([]string{"--config-dir", tmpDir})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		state, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("succeeds when no session exists", func() {
		cmd := clearcmder.NewClearCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to .skein/ config directory")
		cmd.SetArgs([]string{"--config-dir", tmpDir})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})
})
